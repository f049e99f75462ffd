package bot

import (
	"errors"
	"fmt"
)

// notifyAll sends text to every recipient. A failed send does not stop the others;
// the failures come back joined.
func (b *Bot) notifyAll(chatIDs []int64, text string) error {
	var errs []error
	for _, id := range chatIDs {
		if err := b.sendText(id, text); err != nil {
			errs = append(errs, fmt.Errorf("send to %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

package bot

// User-facing replies are in Urdu; admin notifications are in English.
const (
	textWelcome        = "👋 خوش آمدید %s! آپ کو %d پوائنٹس ملے ہیں سائن اپ بونس کے طور پر۔"
	textWelcomeBack    = "👋 دوبارہ خوش آمدید %s! آپ کے پوائنٹس: %d"
	textReferralLink   = "🔗 آپ کا ریفرل لنک: %s"
	textReferralBonus  = "🎉 آپ کو %d پوائنٹس ملے ریفرل بونس کے طور پر!"
	textBalance        = "💰 آپ کے پوائنٹس: %d\n💵 %s: %s\n👥 ریفرلز: %d"
	textBelowMinimum   = "❌ کم از کم %d پوائنٹس چاہیے ودڈرال کے لیے۔"
	textWithdrawUsage  = "⚠️ استعمال: /withdraw method account\nمثال: /withdraw easypaisa 03001234567"
	textWithdrawQueued = "✅ آپ کی ودڈرال ریکویسٹ ایڈمن کو بھیج دی گئی ہے۔\nریفرنس: <code>%s</code>"
	textFailure        = "⚠️ کچھ غلط ہو گیا۔ براہ کرم بعد میں دوبارہ کوشش کریں۔"
	textSlowDown       = "⏳ براہ کرم تھوڑا انتظار کریں اور دوبارہ کوشش کریں۔"
	textUnknown        = "❓ یہ کمانڈ دستیاب نہیں۔ /help دیکھیں۔"

	textHelp = "ℹ️ <b>کمانڈز</b>\n" +
		"• /start — شامل ہوں (%d پوائنٹس بونس)\n" +
		"• /points — اپنے پوائنٹس دیکھیں\n" +
		"• /withdraw method account — ودڈرال ریکویسٹ\n\n" +
		"ہر ریفرل پر %d پوائنٹس۔ کم از کم ودڈرال: %d پوائنٹس۔\n" +
		"📢 چینل: %s"

	textAdminWithdraw = "📥 <b>Withdraw Request</b>\n" +
		"User: <code>%d</code>\n" +
		"Method: %s\n" +
		"Account: <code>%s</code>\n" +
		"Points: %d (%s %s)\n" +
		"Ref: <code>%s</code>"
)

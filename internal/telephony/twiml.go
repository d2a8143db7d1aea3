// internal/telephony/twiml.go
package telephony

import "strings"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// VoicemailTwiML instructs Twilio to play the audio and hang up. The URL is
// escaped to keep query parameters from breaking the XML.
func VoicemailTwiML(audioURL string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Play>` + xmlEscaper.Replace(audioURL) + `</Play>
  <Hangup/>
</Response>`
}

// SayTwiML speaks a message and hangs up, used on webhook error paths.
func SayTwiML(message string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Say>` + xmlEscaper.Replace(message) + `</Say>
  <Hangup/>
</Response>`
}

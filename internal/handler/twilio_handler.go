// internal/handler/twilio_handler.go
package handler

import (
	"log"
	"net/http"

	"github.com/propreach/outreach-backend/internal/model"
	"github.com/propreach/outreach-backend/internal/queue"
	"github.com/propreach/outreach-backend/internal/telephony"
)

// TwilioHandler serves the webhooks Twilio calls back into: the TwiML that
// plays the voicemail, and call status updates.
type TwilioHandler struct {
	Events queue.Queue // optional
}

// VoicemailDrop answers TwiML that plays the audio URL and hangs up. Twilio
// may use GET or POST; the URL arrives as a query or form parameter. The
// response is always 200 text/xml so the call never dead-ends.
func (h *TwilioHandler) VoicemailDrop(w http.ResponseWriter, r *http.Request) {
	audioURL := r.URL.Query().Get("audioUrl")
	if audioURL == "" {
		if err := r.ParseForm(); err == nil {
			audioURL = r.PostFormValue("audioUrl")
		}
	}

	w.Header().Set("Content-Type", "text/xml")
	if audioURL == "" {
		w.Write([]byte(telephony.SayTwiML("Error: No audio URL provided")))
		return
	}
	w.Write([]byte(telephony.VoicemailTwiML(audioURL)))
}

// CallStatus receives call lifecycle updates, logs them, and forwards a
// delivery event for the delivery log.
func (h *TwilioHandler) CallStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeValidationError(w, "invalid form body")
		return
	}

	callSID := r.PostFormValue("CallSid")
	callStatus := r.PostFormValue("CallStatus")
	to := r.PostFormValue("To")
	from := r.PostFormValue("From")
	answeredBy := r.PostFormValue("AnsweredBy")

	log.Printf("call status update: sid=%s status=%s to=%s from=%s answeredBy=%s",
		callSID, callStatus, to, from, answeredBy)

	queue.PublishDelivery(h.Events, queue.DeliveryEvent{
		Kind:   model.DeliveryCall,
		SID:    callSID,
		To:     to,
		From:   from,
		Status: callStatus,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// internal/service/outreach_service.go
package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/propreach/outreach-backend/internal/apperrors"
	"github.com/propreach/outreach-backend/internal/jobs"
	"github.com/propreach/outreach-backend/internal/model"
	"github.com/propreach/outreach-backend/internal/queue"
	"github.com/propreach/outreach-backend/internal/scripttmpl"
	"github.com/propreach/outreach-backend/internal/storage"
	"github.com/propreach/outreach-backend/internal/telephony"
	"github.com/propreach/outreach-backend/internal/video"
	"github.com/propreach/outreach-backend/internal/voice"
)

// testAudioFile is the fallback clip for /voice/test-audio when no URL is
// supplied.
const testAudioFile = "test1.mp3"

// OutreachService drives one prospect through a send: render, synthesize,
// store, deliver. Batch sends stay caller-sequenced; this service is
// strictly per-prospect.
type OutreachService struct {
	Voice     *voice.Client
	Storage   *storage.Store
	Telephony *telephony.Client
	HeyGen    *video.HeyGenClient
	BombBomb  *video.BombBombClient
	Poller    *jobs.Poller
	Events    queue.Queue // optional delivery-event sink

	httpClient *http.Client
}

// NewOutreachService wires the service.
func NewOutreachService(v *voice.Client, st *storage.Store, t *telephony.Client,
	hg *video.HeyGenClient, bb *video.BombBombClient, p *jobs.Poller, events queue.Queue) *OutreachService {
	return &OutreachService{
		Voice:      v,
		Storage:    st,
		Telephony:  t,
		HeyGen:     hg,
		BombBomb:   bb,
		Poller:     p,
		Events:     events,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// VoiceSendResult is the outcome of a voicemail-as-MMS send.
type VoiceSendResult struct {
	Message    string `json:"message"`
	MessageSID string `json:"messageSid"`
	Status     string `json:"status"`
	MediaURL   string `json:"mediaUrl"`
}

// CallSendResult is the outcome of a voicemail call.
type CallSendResult struct {
	Message  string `json:"message"`
	CallSID  string `json:"callSid"`
	Status   string `json:"status"`
	AudioURL string `json:"audioUrl"`
}

// VideoResult is the outcome of a video generation.
type VideoResult struct {
	VideoURL string `json:"videoUrl"`
	VideoID  string `json:"videoId,omitempty"`
	Message  string `json:"message"`
}

// SendVoicemailMMS renders the script, synthesizes audio, uploads it, and
// sends it to the prospect as an MMS attachment.
func (s *OutreachService) SendVoicemailMMS(ctx context.Context, p model.Prospect, script, yourName, yourPhone, voiceID string) (*VoiceSendResult, error) {
	rendered := scripttmpl.Render(script, p, yourName, yourPhone)

	audio, err := s.Voice.Generate(ctx, rendered, voiceID)
	if err != nil {
		return nil, err
	}

	ref, err := s.Storage.Put(ctx, audio, "mp3", storage.DefaultVoiceBucket, "audio/mpeg")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindOf(err),
			"failed to upload audio file. Please check your storage configuration", err)
	}

	body := "Voicemail from Campaign Manager"
	if yourName != "" {
		body = "Voicemail from " + yourName
	}
	result, err := s.Telephony.SendMMS(ctx, p.PhoneNumber, "", ref.PublicURL, body)
	if err != nil {
		return nil, err
	}

	s.publish(queue.DeliveryEvent{
		Kind: model.DeliveryMMS, SID: result.MessageSID,
		To: result.To, From: result.From, Status: result.Status, MediaURL: ref.PublicURL,
	})
	return &VoiceSendResult{
		Message:    fmt.Sprintf("Voicemail MMS sent to %s", p.FirstName),
		MessageSID: result.MessageSID,
		Status:     result.Status,
		MediaURL:   ref.PublicURL,
	}, nil
}

// SendVoicemailFromStorage places a voicemail call using a file already in
// the storage bucket, resolved to a public or signed URL.
func (s *OutreachService) SendVoicemailFromStorage(ctx context.Context, to, filePath, bucket string, useSignedURL bool, from, callerID string) (*CallSendResult, error) {
	if bucket == "" {
		bucket = storage.DefaultVoiceBucket
	}

	var audioURL string
	var err error
	if useSignedURL {
		audioURL, err = s.Storage.Supabase.SignedURL(ctx, bucket, filePath, 600)
	} else {
		if !s.Storage.Supabase.Configured() {
			err = apperrors.New(apperrors.KindBackendUnavailable,
				"Supabase client is not configured. Please check your credentials.")
		} else {
			audioURL = s.Storage.Supabase.PublicURL(bucket, filePath)
		}
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation,
			"failed to get media URL from Supabase. Make sure the file exists in your bucket; for private buckets set useSignedUrl to true", err)
	}

	result, err := s.Telephony.SendVoicemail(ctx, to, from, audioURL, callerID)
	if err != nil {
		return nil, err
	}

	s.publish(queue.DeliveryEvent{
		Kind: model.DeliveryCall, SID: result.CallSID,
		To: result.To, From: result.From, Status: result.Status, MediaURL: audioURL,
	})
	return &CallSendResult{
		Message:  fmt.Sprintf("Voicemail sent to %s", to),
		CallSID:  result.CallSID,
		Status:   result.Status,
		AudioURL: audioURL,
	}, nil
}

// SendTestSMS sends a plain connectivity-test message.
func (s *OutreachService) SendTestSMS(ctx context.Context, to, message string) (*telephony.MessageResult, error) {
	if message == "" {
		message = "Test message from Campaign Manager. Twilio integration is working!"
	}
	result, err := s.Telephony.SendSMS(ctx, to, "", message)
	if err != nil {
		return nil, err
	}
	s.publish(queue.DeliveryEvent{
		Kind: model.DeliverySMS, SID: result.MessageSID,
		To: result.To, From: result.From, Status: result.Status,
	})
	return result, nil
}

// SendTestAudio sends a test MMS. Without audioURL it falls back to the
// test clip in the working directory; a loopback URL is re-uploaded to the
// storage backend first, since the carrier cannot fetch localhost.
func (s *OutreachService) SendTestAudio(ctx context.Context, to, audioURL string) (*VoiceSendResult, error) {
	var mediaURL string
	switch {
	case audioURL == "":
		data, err := os.ReadFile(testAudioFile)
		if err != nil {
			return nil, apperrors.Newf(apperrors.KindNotFound,
				"no audio file provided and failed to read %s: %v. Upload an audio file or place %s next to the server binary",
				testAudioFile, err, testAudioFile)
		}
		ref, err := s.Storage.Put(ctx, data, "mp3", storage.DefaultVoiceBucket, "audio/mpeg")
		if err != nil {
			return nil, err
		}
		mediaURL = ref.PublicURL
	case isLoopbackURL(audioURL):
		data, err := s.fetch(ctx, audioURL)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindValidation,
				"audioUrl points at localhost and could not be fetched for re-upload", err)
		}
		ref, err := s.Storage.Put(ctx, data, "mp3", storage.DefaultVoiceBucket, "audio/mpeg")
		if err != nil {
			return nil, err
		}
		mediaURL = ref.PublicURL
	default:
		mediaURL = audioURL
	}

	result, err := s.Telephony.SendMMS(ctx, to, "", mediaURL, "Test audio message from Campaign Manager")
	if err != nil {
		return nil, err
	}
	s.publish(queue.DeliveryEvent{
		Kind: model.DeliveryMMS, SID: result.MessageSID,
		To: result.To, From: result.From, Status: result.Status, MediaURL: mediaURL,
	})
	return &VoiceSendResult{
		Message:    fmt.Sprintf("Test audio message sent to %s", to),
		MessageSID: result.MessageSID,
		Status:     result.Status,
		MediaURL:   mediaURL,
	}, nil
}

// GenerateVideoClone submits a talking-avatar generation job and polls it to
// completion.
func (s *OutreachService) GenerateVideoClone(ctx context.Context, text string) (*VideoResult, error) {
	if !s.HeyGen.Configured() {
		return nil, apperrors.New(apperrors.KindProviderUnconfigured,
			"HeyGen configuration is incomplete. Please check environment variables.")
	}
	job := &video.GenerationJob{Client: s.HeyGen, Text: text}
	result, err := s.Poller.SubmitAndAwait(ctx, job)
	if err != nil {
		return nil, err
	}
	return &VideoResult{
		VideoURL: result.ResultURL,
		VideoID:  result.JobID,
		Message:  "Video generated successfully",
	}, nil
}

// GenerateVideo submits a generation task without waiting for it, returning
// a mock URL when the provider is unconfigured so the UI flow stays usable
// in development.
func (s *OutreachService) GenerateVideo(ctx context.Context, text string) (*VideoResult, error) {
	if !s.HeyGen.Configured() {
		return &VideoResult{
			VideoURL: "https://example.com/mock-video.mp4",
			Message:  "Mock video (HeyGen API key not configured)",
		}, nil
	}
	videoID, err := s.HeyGen.Submit(ctx, text)
	if err != nil {
		return nil, err
	}
	return &VideoResult{VideoID: videoID, Message: "Video generation initiated"}, nil
}

// SendVideoEmail renders the script and sends it as a personalized video
// email, with a queued-mock response when the provider is unconfigured.
func (s *OutreachService) SendVideoEmail(ctx context.Context, p model.Prospect, script, yourName, yourPhone string) (emailID, message string, err error) {
	rendered := scripttmpl.Render(script, p, yourName, yourPhone)

	if !s.BombBomb.Configured() {
		return "", fmt.Sprintf("Video email queued for %s (BombBomb not configured)", p.FirstName), nil
	}

	subject := fmt.Sprintf("Follow-up on your property at %s", p.PropertyAddress)
	emailID, err = s.BombBomb.SendVideoEmail(ctx, p.Email, subject, rendered, "")
	if err != nil {
		return "", "", err
	}

	s.publish(queue.DeliveryEvent{
		Kind: model.DeliveryVideoEmail, SID: emailID, To: p.Email, Status: "sent",
	})
	return emailID, fmt.Sprintf("Video email sent to %s", p.FirstName), nil
}

func (s *OutreachService) publish(ev queue.DeliveryEvent) {
	queue.PublishDelivery(s.Events, ev)
}

func (s *OutreachService) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func isLoopbackURL(u string) bool {
	return strings.Contains(u, "localhost") ||
		strings.Contains(u, "127.0.0.1") ||
		strings.Contains(u, "0.0.0.0")
}

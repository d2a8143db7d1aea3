// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/propreach/outreach-backend/internal/config"
	"github.com/propreach/outreach-backend/internal/db"
	"github.com/propreach/outreach-backend/internal/handler"
	"github.com/propreach/outreach-backend/internal/jobs"
	"github.com/propreach/outreach-backend/internal/queue"
	"github.com/propreach/outreach-backend/internal/repository"
	"github.com/propreach/outreach-backend/internal/service"
	"github.com/propreach/outreach-backend/internal/storage"
	"github.com/propreach/outreach-backend/internal/telephony"
	"github.com/propreach/outreach-backend/internal/video"
	"github.com/propreach/outreach-backend/internal/voice"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg := config.Load()

	// Optional delivery log
	var deliveryStore repository.DeliveryStore
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to DB: %v", err)
		}
		deliveryStore = &repository.DeliveryRepository{DB: conn}
		log.Println("✅ Connected to database, delivery log enabled")
	} else {
		log.Println("⚠️ DATABASE_URL not set, delivery events are logged only")
	}

	// Delivery events ride RabbitMQ when configured, the in-memory queue
	// otherwise
	var events queue.Queue
	if cfg.AMQPURL != "" {
		amqpQueue, err := queue.DialAMQP(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer amqpQueue.Close()
		events = amqpQueue
		log.Println("✅ Connected to RabbitMQ")
	} else {
		events = queue.NewInMemoryQueue()
	}
	queue.StartDeliverySubscriber(events, deliveryStore)

	// Provider clients
	supabase := storage.NewSupabaseClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	local := storage.NewLocalStore(cfg.PublicDir, cfg.PublicBaseURL)
	store := storage.NewStore(supabase, local)
	if !supabase.Configured() {
		log.Println("⚠️ Supabase credentials not configured, media falls back to local disk")
	}

	twilioClient := telephony.New(cfg.Twilio, cfg.PublicBaseURL)
	if !twilioClient.Configured() {
		log.Println("⚠️ Twilio credentials not configured")
	}

	voiceClient := voice.NewClient(cfg.ElevenLabs)
	heygenClient := video.NewHeyGenClient(cfg.HeyGen)
	bombbombClient := video.NewBombBombClient(cfg.BombBomb)

	outreach := service.NewOutreachService(
		voiceClient, store, twilioClient, heygenClient, bombbombClient,
		jobs.NewPoller(), events,
	)

	mediaHandler := &handler.MediaHandler{Store: store}
	prospectHandler := &handler.ProspectHandler{}
	voiceHandler := &handler.VoiceHandler{Voice: voiceClient, Service: outreach}
	videoHandler := &handler.VideoHandler{Service: outreach}
	twilioHandler := &handler.TwilioHandler{Events: events}
	deliveryHandler := &handler.DeliveryHandler{Store: deliveryStore}

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/media/upload", mediaHandler.Upload)
	r.Post("/prospects/parse", prospectHandler.Parse)

	r.Post("/voice/generate", voiceHandler.Generate)
	r.Get("/voice/voices", voiceHandler.Voices)
	r.Post("/voice/send", voiceHandler.Send)
	r.Post("/voice/send-from-supabase", voiceHandler.SendFromSupabase)
	r.Post("/voice/test", voiceHandler.Test)
	r.Post("/voice/test-audio", voiceHandler.TestAudio)

	r.Post("/video/generate", videoHandler.Generate)
	r.Post("/video/heygen-clone", videoHandler.HeyGenClone)
	r.Post("/video/send", videoHandler.Send)

	r.Get("/twilio/voicemail-drop", twilioHandler.VoicemailDrop)
	r.Post("/twilio/voicemail-drop", twilioHandler.VoicemailDrop)
	r.Post("/twilio/call-status", twilioHandler.CallStatus)

	r.Get("/deliveries", deliveryHandler.ListRecent)

	// Local fallback media must stay dereferenceable through this server
	tempMedia := http.StripPrefix("/temp-media/",
		http.FileServer(http.Dir(filepath.Join(cfg.PublicDir, "temp-media"))))
	r.Handle("/temp-media/*", tempMedia)

	log.Println("🚀 Server running on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}

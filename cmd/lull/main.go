package main

import (
	"context"
	"errors"
	log "log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cli "github.com/spf13/pflag"

	"lull/internal/agent"
	"lull/internal/audio"
	"lull/internal/config"
	"lull/internal/ipc"
	"lull/internal/listen"
	"lull/internal/logging"
	"lull/internal/nlu"
	"lull/internal/notify"
	"lull/internal/proxy"
	"lull/internal/qa"
	"lull/internal/screen"
	"lull/internal/speech"
	"lull/internal/translate"
	"lull/internal/tts"
	"lull/internal/vision"
)

const controlQueue = 8

func main() {
	text := cli.BoolP("text", "t", false, "Read commands from the terminal instead of the microphone")
	cli.Parse()

	config.LoadEnvFile(os.Getenv("LULL_ENV_FILE"))

	closer := logging.Setup(logging.Options{
		Level: strings.ToLower(os.Getenv("LULL_LOG_LEVEL")),
		File:  os.Getenv("LULL_LOG_FILE"),
	})
	defer closer.Close()

	cfg, err := config.Load()
	if err != nil {
		log.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	log.Info("Booting up")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	translator, closeCache, err := newTranslator(ctx, cfg)
	if err != nil {
		log.Error("Failed to set up translation", "err", err)
		os.Exit(1)
	}
	defer closeCache()

	var dispatchOpts []nlu.DispatcherOption
	if cfg.ScreenQA && cfg.OpenAIKey != "" {
		dispatchOpts = append(dispatchOpts, nlu.WithAnswerer(qa.NewOpenAI(cfg.OpenAIKey, cfg.QAModel, nil)))
		log.Info("Screen questions answered by OpenAI", "model", cfg.QAModel)
	}
	dispatcher := nlu.NewDispatcher(
		screen.NewReader(cfg.ScreenshotCmd, cfg.OCRCmd),
		vision.NewDetector(cfg.DetectCmd),
		translator,
		dispatchOpts...,
	)

	// Speech is optional: without a model the assistant takes typed input.
	var stt speech.Recognizer
	if !*text {
		stt, err = speech.Open(cfg.VoskModelPath, cfg.WhisperModelPath)
		if err != nil {
			log.Warn("Speech recognition unavailable, using typed input", "err", err)
			stt = nil
		} else {
			defer stt.Close()
			log.Info("Loaded speech recognizer", "engine", stt.Name())
		}
	}

	var primary listen.Source
	if stt != nil {
		rec := audio.NewRecorder(audio.DefaultRecorderOptions)
		if err := rec.Init(); err != nil {
			log.Warn("Microphone unavailable, using typed input", "err", err)
		} else {
			defer rec.Close()
			primary = listen.NewMic(rec, stt)
		}
	}
	if primary == nil {
		primary = listen.NewTyped(os.Stdin, os.Stdout)
	}

	queue := listen.NewQueue(controlQueue)
	defer queue.Close()

	var fileSTT listen.Recognizer
	if stt != nil {
		fileSTT = stt
	}
	srv, err := ipc.StartServer(cfg.ControlSocket, listen.ControlHandler(queue, fileSTT, func() {
		if !queue.Push("stop", listen.OriginControl) {
			stop()
		}
	}))
	if err != nil {
		log.Warn("Control socket disabled", "path", cfg.ControlSocket, "err", err)
	} else {
		defer srv.Close()
	}

	sinks := []agent.Sink{agent.NewConsole(os.Stdout)}
	if cfg.TTS == config.TTSEspeak {
		ducker := audio.NewDucker(audio.DuckerOptions{})
		sinks = append(sinks, tts.NewSpeaker(cfg.TTSVoice, ducker))
	}
	if cfg.BusURL != "" {
		bus := agent.NewBus(cfg.BusURL)
		defer bus.Close()
		sinks = append(sinks, bus)
	}

	waker := notify.NewWaker(notify.NewChime(cfg.ChimeFile), notify.NewDesktop(stt != nil))

	a := agent.New(listen.Merge(listen.CloseOnEOF(primary, queue), queue), dispatcher, agent.Multi(sinks...), agent.Options{
		RequireWake: cfg.RequireWake,
		Waker:       waker,
	})

	log.Info("Boot up - successful")

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Assistant stopped", "err", err)
		os.Exit(1)
	}
	log.Info("Shutting down")
}

// newTranslator wires the LibreTranslate endpoints, the secondary provider
// and the cache. The returned func releases the cache.
func newTranslator(ctx context.Context, cfg config.Config) (*translate.Client, func(), error) {
	httpClient, err := proxy.NewHTTPClient(cfg.SocksProxy, 0)
	if err != nil {
		return nil, nil, err
	}

	var secondary translate.Provider
	switch cfg.Secondary {
	case config.SecondaryMyMemory:
		secondary = translate.NewMyMemory(cfg.MyMemoryEndpoint, httpClient)
	case config.SecondaryOpenAI:
		if cfg.OpenAIKey == "" {
			log.Warn("OPENAI_API_KEY not set, no secondary translator")
			break
		}
		secondary = translate.NewOpenAI(cfg.OpenAIKey, httpClient)
	}

	var cache translate.Cache = translate.NewMemoryCache()
	closeCache := func() {}
	if cfg.RedisAddress != "" {
		rc, err := translate.NewRedisCache(ctx, translate.RedisConfig{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			log.Warn("Redis unavailable, caching in memory", "err", err)
		} else {
			cache = rc
			closeCache = func() { rc.Close() }
		}
	}

	client := translate.NewClient(
		translate.LibreTranslateEndpoints(cfg.Endpoints, cfg.APIKey, httpClient),
		secondary,
		translate.WithTimeout(cfg.TranslateTimeout),
		translate.WithCache(cache),
	)
	return client, closeCache, nil
}

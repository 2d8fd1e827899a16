// =============================================================================
// VoiceBridge 主入口
// =============================================================================
// ElevenLabs 语音网关，包含 HTTP 服务、健康检查、Prometheus 指标与命令行工具
//
// 使用方法:
//
//	voicebridge serve                                  # 启动服务
//	voicebridge serve --config config.yaml             # 指定配置文件
//	voicebridge speak --text "Hello" --out hello.mp3   # 本地合成一段语音
//	voicebridge voices list                            # 列出声音
//	voicebridge version                                # 显示版本信息
//	voicebridge health                                 # 健康检查
// =============================================================================

// @title VoiceBridge API
// @version 1.0.0
// @description OpenAI-style text-to-speech gateway backed by ElevenLabs.

// @contact.name VoiceBridge Team
// @contact.url https://github.com/BaSui01/voicebridge

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key for authentication

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/voicebridge/config"
	"github.com/BaSui01/voicebridge/internal/telemetry"
	"github.com/BaSui01/voicebridge/llm/speech"
)

// =============================================================================
// 📦 版本信息（构建时注入）
// =============================================================================

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// =============================================================================
// 🎯 主函数
// =============================================================================

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "speak":
		err = runSpeak(os.Args[2:], os.Stdin, os.Stdout)
	case "voices":
		err = runVoices(os.Args[2:], os.Stdout)
	case "version":
		printVersion()
	case "health":
		err = runHealthCheck(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig 加载并校验配置
func loadConfig(path string) (*config.Config, error) {
	loader := config.NewLoader().WithValidator((*config.Config).Validate)
	if path != "" {
		loader = loader.WithConfigPath(path)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// 🖥️ serve 命令
// =============================================================================

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	_ = fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	logger := initLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting VoiceBridge",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	otelProviders, err := telemetry.Init(cfg.Telemetry, logger)
	if err != nil {
		logger.Warn("failed to initialize telemetry", zap.Error(err))
	}

	srv, err := NewServer(cfg, logger, otelProviders)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		return err
	}

	logger.Info("VoiceBridge stopped")
	return nil
}

// =============================================================================
// 🔊 speak 命令
// =============================================================================

func runSpeak(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("speak", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	text := fs.String("text", "", "Text to synthesize (reads stdin when empty)")
	voice := fs.String("voice", "", "Voice ID (defaults to elevenlabs.default_voice_id)")
	model := fs.String("model", "", "Model ID (defaults to elevenlabs.default_model)")
	speed := fs.Float64("speed", 0, "Speaking speed, 0 leaves it unset")
	out := fs.String("out", "speech.mp3", "Output file, '-' writes to stdout")
	_ = fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	input := *text
	if input == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		input = strings.TrimSpace(string(data))
	}
	if input == "" {
		return errors.New("nothing to synthesize: pass --text or pipe text on stdin")
	}

	logger := initLogger(config.LogConfig{Level: "warn", Format: "console", OutputPaths: []string{"stderr"}})
	defer func() { _ = logger.Sync() }()

	tts := speech.NewElevenLabsTextToSpeech(cfg.ElevenLabs.SpeechConfig(), cfg.ElevenLabs.Secrets(), logger,
		speech.WithCostCalculator(cfg.Pricing.CostCalculator()))

	req := &speech.SpeechRequest{Model: *model, Input: input, Voice: *voice, OptionalParams: map[string]any{}}
	if *speed > 0 {
		req.OptionalParams["speed"] = *speed
	}

	resp, err := tts.Convert(context.Background(), req)
	if err != nil {
		return err
	}

	if *out == "-" {
		_, err = stdout.Write(resp.Content)
		return err
	}
	if err := resp.SaveToFile(*out); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "wrote %s (%d bytes, %.2fs, $%.6f)\n",
		*out, len(resp.Content), resp.Hidden.AudioDurationSeconds, resp.Hidden.ResponseCost)
	return nil
}

// =============================================================================
// 🎙️ voices 命令
// =============================================================================

func runVoices(args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return errors.New("usage: voicebridge voices <list|get|delete|create> [options]")
	}
	sub := args[0]

	fs := flag.NewFlagSet("voices "+sub, flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	id := fs.String("id", "", "Voice ID (get, delete)")
	name := fs.String("name", "", "Voice name (create)")
	description := fs.String("description", "", "Voice description (create)")
	var files []string
	fs.Func("file", "Audio sample path, repeatable (create)", func(v string) error {
		files = append(files, v)
		return nil
	})
	_ = fs.Parse(args[1:])

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	logger := initLogger(config.LogConfig{Level: "warn", Format: "console", OutputPaths: []string{"stderr"}})
	defer func() { _ = logger.Sync() }()

	manager := speech.NewVoiceManager(cfg.ElevenLabs.SpeechConfig(), cfg.ElevenLabs.Secrets(), logger)
	ctx := context.Background()

	var result any
	switch sub {
	case "list":
		result, err = manager.List(ctx, speech.CallOptions{})
	case "get":
		result, err = manager.Get(ctx, *id, speech.CallOptions{})
	case "delete":
		result, err = manager.Delete(ctx, *id, speech.CallOptions{})
	case "create":
		req := speech.CreateVoiceRequest{Name: *name, Description: *description}
		for _, path := range files {
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return fmt.Errorf("read sample %s: %w", path, readErr)
			}
			req.Files = append(req.Files, data)
		}
		result, err = manager.Create(ctx, req)
	default:
		return fmt.Errorf("unknown voices subcommand: %s", sub)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// =============================================================================
// 🏥 健康检查命令
// =============================================================================

func runHealthCheck(args []string) error {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	addr := fs.String("addr", "http://localhost:8080", "Server address")
	_ = fs.Parse(args)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(*addr + "/health")
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode)
	}

	fmt.Println("OK")
	return nil
}

// =============================================================================
// 📋 版本和帮助
// =============================================================================

func printVersion() {
	fmt.Printf("VoiceBridge %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`VoiceBridge - ElevenLabs speech gateway

Usage:
  voicebridge <command> [options]

Commands:
  serve     Start the VoiceBridge server
  speak     Synthesize text to an audio file
  voices    Manage ElevenLabs voices (list, get, delete, create)
  version   Show version information
  health    Check server health
  help      Show this help message

Options for 'serve':
  --config <path>   Path to configuration file (YAML)

Examples:
  voicebridge serve --config /etc/voicebridge/config.yaml
  echo "Hello" | voicebridge speak --voice 21m00Tcm4TlvDq8ikWAM --out hello.mp3
  voicebridge voices create --name Narrator --file a.mp3 --file b.mp3
  voicebridge voices delete --id test-voice-id-123
  voicebridge health --addr http://localhost:8080`)
}

// =============================================================================
// 🔧 日志初始化
// =============================================================================

func initLogger(cfg config.LogConfig) *zap.Logger {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	encoding := "json"
	if cfg.Format == "console" {
		encoding = "console"
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       encoding == "console",
		Encoding:          encoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !cfg.EnableCaller,
		DisableStacktrace: !cfg.EnableStacktrace,
	}

	logger, err := zapConfig.Build()
	if err != nil {
		// 回退到基本 logger
		logger, _ = zap.NewProduction()
	}

	return logger
}

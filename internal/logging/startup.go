package logging

import (
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StartupLogger gathers how a binary was wired at boot (providers, buckets,
// secret parameter paths, enabled features) and emits it as one structured
// event, so a single log line explains a deployment's configuration.
type StartupLogger struct {
	name         string
	initDuration time.Duration

	providers map[string]string
	buckets   map[string]string
	ssmParams map[string]string
	features  map[string]bool
	config    map[string]string
}

// NewStartupLogger creates a StartupLogger for the named binary
// (e.g. "enhance-lambda", "enhance-cli").
func NewStartupLogger(name string) *StartupLogger {
	return &StartupLogger{
		name:      name,
		providers: make(map[string]string),
		buckets:   make(map[string]string),
		ssmParams: make(map[string]string),
		features:  make(map[string]bool),
		config:    make(map[string]string),
	}
}

// Provider registers an external model or API by role, e.g. ("vision", "gemini-2.5-flash").
func (s *StartupLogger) Provider(role, model string) *StartupLogger {
	s.providers[role] = model
	return s
}

// S3Bucket registers a bucket used as the blob sink.
func (s *StartupLogger) S3Bucket(label, name string) *StartupLogger {
	s.buckets[label] = name
	return s
}

// SSMParam registers a parameter path. Only the path is logged, never the value.
func (s *StartupLogger) SSMParam(label, path string) *StartupLogger {
	s.ssmParams[label] = path
	return s
}

// Feature registers a feature flag such as "publish" or "storage".
func (s *StartupLogger) Feature(name string, enabled bool) *StartupLogger {
	s.features[name] = enabled
	return s
}

// Config registers a non-sensitive configuration value.
func (s *StartupLogger) Config(key, value string) *StartupLogger {
	s.config[key] = value
	return s
}

// InitDuration records how long boot took.
func (s *StartupLogger) InitDuration(d time.Duration) *StartupLogger {
	s.initDuration = d
	return s
}

// Event builds the startup event at the given level without sending it.
func (s *StartupLogger) Event(evt *zerolog.Event) *zerolog.Event {
	runtimeDict := zerolog.Dict().
		Str("name", s.name).
		Str("functionName", os.Getenv("AWS_LAMBDA_FUNCTION_NAME")).
		Str("region", os.Getenv("AWS_REGION")).
		Str("goVersion", runtime.Version()).
		Str("arch", runtime.GOARCH).
		Str("logLevel", zerolog.GlobalLevel().String())
	evt = evt.Dict("runtime", runtimeDict)

	for key, m := range map[string]map[string]string{
		"providers": s.providers,
		"s3Buckets": s.buckets,
		"ssmParams": s.ssmParams,
		"config":    s.config,
	} {
		if len(m) > 0 {
			evt = evt.Dict(key, dictFromMap(m))
		}
	}

	if len(s.features) > 0 {
		d := zerolog.Dict()
		for k, v := range s.features {
			d = d.Bool(k, v)
		}
		evt = evt.Dict("features", d)
	}

	if s.initDuration > 0 {
		evt = evt.Dur("initDuration", s.initDuration)
	}
	return evt
}

// Log emits the startup event at INFO.
func (s *StartupLogger) Log() {
	s.Event(log.Info()).Msg("Startup complete")
}

// EnvOrDefault returns the named environment variable, or def when unset.
func EnvOrDefault(envVar, def string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return def
}

func dictFromMap(m map[string]string) *zerolog.Event {
	d := zerolog.Dict()
	for k, v := range m {
		d = d.Str(k, v)
	}
	return d
}

// Package bootstrap holds the cold-start wiring shared by every binary: AWS
// config, secrets from SSM Parameter Store, provider clients, the blob sink,
// and the startup log line. Each main is a short composition of these helpers.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/fpang/venue-enhance/internal/config"
	"github.com/fpang/venue-enhance/internal/engine"
	"github.com/fpang/venue-enhance/internal/gemini"
	"github.com/fpang/venue-enhance/internal/instagram"
	"github.com/fpang/venue-enhance/internal/logging"
	"github.com/fpang/venue-enhance/internal/storage"
)

// ParameterGetter is the subset of *ssm.Client used to read secrets.
type ParameterGetter interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// InitAWS loads the default AWS config.
func InitAWS(ctx context.Context) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return cfg, nil
}

// LoadSecrets fills credentials the environment left empty from SSM. A
// parameter that cannot be read only disables its feature.
func LoadSecrets(ctx context.Context, client ParameterGetter, cfg *config.Config) {
	if cfg.GeminiAPIKey == "" && cfg.VertexProject == "" {
		cfg.GeminiAPIKey = getParameter(ctx, client, cfg.GeminiKeyParam, true)
	}
	if cfg.InstagramToken == "" {
		cfg.InstagramToken = getParameter(ctx, client, cfg.InstagramTokenParam, true)
	}
	if cfg.InstagramUserID == "" {
		cfg.InstagramUserID = getParameter(ctx, client, cfg.InstagramUserParam, false)
	}
}

func getParameter(ctx context.Context, client ParameterGetter, name string, decrypt bool) string {
	if name == "" {
		return ""
	}
	start := time.Now()
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: aws.Bool(decrypt),
	})
	if err != nil {
		log.Warn().Err(err).Str("param", name).Msg("SSM parameter not available, feature disabled")
		return ""
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return ""
	}
	log.Debug().Str("param", name).Dur("elapsed", time.Since(start)).Msg("Parameter loaded from SSM")
	return *out.Parameter.Value
}

// Options selects which optional wiring Build performs.
type Options struct {
	// Name identifies the binary in the startup log.
	Name string
	// UseSSM reads missing secrets from Parameter Store.
	UseSSM bool
	// LocalDir backs storage with a directory when no bucket is configured.
	LocalDir string
}

// Build creates an Engine with every collaborator cfg enables. Missing
// optional credentials leave the collaborator nil; the engine then degrades
// or reports a configuration error for that operation only.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*engine.Engine, error) {
	start := time.Now()
	boot := logging.NewStartupLogger(opts.Name)

	var awsCfg *aws.Config
	if opts.UseSSM || cfg.MediaBucket != "" {
		c, err := InitAWS(ctx)
		if err != nil {
			return nil, err
		}
		awsCfg = &c
	}
	if opts.UseSSM {
		LoadSecrets(ctx, ssm.NewFromConfig(*awsCfg), cfg)
		boot.SSMParam("geminiApiKey", cfg.GeminiKeyParam).
			SSMParam("instagramToken", cfg.InstagramTokenParam).
			SSMParam("instagramUserId", cfg.InstagramUserParam)
	}

	var deps engine.Deps

	if cfg.Enabled(config.FeatureVision) {
		client, err := gemini.NewVisionClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		deps.Vision = gemini.NewVision(client, cfg.VisionModel)
		boot.Provider("vision", cfg.VisionModel)
	}

	if cfg.Enabled(config.FeatureEdit) {
		client, err := gemini.NewEditClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		deps.Provider = gemini.NewImagen(client, cfg.EditModel)
		boot.Provider("edit", cfg.EditModel).Config("vertexLocation", cfg.VertexLocation)
	}

	switch {
	case cfg.MediaBucket != "":
		client := s3.NewFromConfig(*awsCfg)
		deps.Sink = storage.NewS3Sink(client, s3.NewPresignClient(client), cfg.MediaBucket, cfg.PresignExpiry)
		boot.S3Bucket("mediaBucket", cfg.MediaBucket)
	case opts.LocalDir != "":
		deps.Sink = storage.DirSink{Root: opts.LocalDir}
		boot.Config("outputDir", opts.LocalDir)
	}

	if cfg.Enabled(config.FeaturePublish) {
		deps.Publisher = instagram.NewClient(cfg.InstagramToken, cfg.InstagramUserID)
	}

	boot.Feature(string(config.FeatureVision), deps.Vision != nil).
		Feature(string(config.FeatureEdit), deps.Provider != nil).
		Feature(string(config.FeatureStorage), deps.Sink != nil).
		Feature(string(config.FeaturePublish), deps.Publisher != nil).
		Config("angleTimeout", cfg.AngleTimeout.String()).
		Config("enhanceTimeout", cfg.EnhanceTimeout.String()).
		InitDuration(time.Since(start)).
		Log()

	return engine.New(cfg, deps), nil
}

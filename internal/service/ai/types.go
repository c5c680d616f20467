package ai

import "google.golang.org/genai"

// ModelPreset represents the model usage preset
type ModelPreset string

const (
	PresetCreative ModelPreset = "creative" // 창의적 응답
	PresetPrecise  ModelPreset = "precise"  // 정확한 응답
	PresetPlanning ModelPreset = "planning" // 긴 JSON 플랜 생성
)

type ModelConfig struct {
	Temperature      float32
	TopP             float32
	TopK             int
	MaxOutputTokens  int
	ResponseMimeType string // "application/json" or "text/plain"
}

// GenerateMetadata describes which backend produced a result.
type GenerateMetadata struct {
	Provider  string
	Model     string
	CacheHit  bool
	LatencyMS int64
}

// PayloadValidator checks an untrusted payload before it is decoded.
type PayloadValidator interface {
	Validate(payload []byte) error
}

type GenerateOptions struct {
	Model          string
	JSONMode       bool
	Overrides      *ModelConfig
	ResponseSchema *genai.Schema // declared to Gemini
	JSONSchema     string        // declared to providers without native schema support
	Validator      PayloadValidator
}

func GetPresetConfig(preset ModelPreset) ModelConfig {
	switch preset {
	case PresetCreative:
		return ModelConfig{
			Temperature:     0.7,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 2048,
		}
	case PresetPrecise:
		return ModelConfig{
			Temperature:     0.1,
			TopP:            0.9,
			TopK:            20,
			MaxOutputTokens: 1024,
		}
	case PresetPlanning:
		return ModelConfig{
			Temperature:     0.7,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 8192,
		}
	default:
		return GetPresetConfig(PresetCreative)
	}
}

func applyOverrides(config ModelConfig, opts *GenerateOptions) ModelConfig {
	if opts == nil || opts.Overrides == nil {
		return config
	}
	if opts.Overrides.Temperature > 0 {
		config.Temperature = opts.Overrides.Temperature
	}
	if opts.Overrides.TopP > 0 {
		config.TopP = opts.Overrides.TopP
	}
	if opts.Overrides.TopK > 0 {
		config.TopK = opts.Overrides.TopK
	}
	if opts.Overrides.MaxOutputTokens > 0 {
		config.MaxOutputTokens = opts.Overrides.MaxOutputTokens
	}
	return config
}

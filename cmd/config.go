package cmd

import "path/filepath"

// Config is the persisted model/engine configuration, stored as
// modelConfig.json in the lui config dir.
type Config struct {
	ModelName    string  `json:"modelName"`
	ModelURL     string  `json:"modelUrl"`
	ModelFile    string  `json:"modelFile"`
	MinBytes     int64   `json:"minBytes"`
	EngineBinary string  `json:"engineBinary"`
	EnginePort   int     `json:"enginePort"`
	MaxTokens    int     `json:"maxTokens"`
	Temperature  float64 `json:"temperature"`
}

func defaultConfig(confDir string) *Config {
	name := "qwen2.5-0.5b-instruct-q4_k_m"
	return &Config{
		ModelName: name,
		ModelURL:  "https://huggingface.co/Qwen/Qwen2.5-0.5B-Instruct-GGUF/resolve/main/qwen2.5-0.5b-instruct-q4_k_m.gguf",
		ModelFile: filepath.Join(confDir, "models", name+".gguf"),
		// Sanity floor well below the expected ~400MB file, catches
		// interrupted downloads and error pages saved as the model
		MinBytes:     100_000_000,
		EngineBinary: "llama-server",
		EnginePort:   8688,
		MaxTokens:    256,
		Temperature:  0.7,
	}
}

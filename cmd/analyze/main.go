package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/inovadocs/export-compliance/lib"
	"github.com/inovadocs/export-compliance/lib/knowledge"
	"github.com/inovadocs/export-compliance/lib/pipeline"
	"github.com/inovadocs/export-compliance/lib/spell"
	"github.com/inovadocs/export-compliance/lib/textacq"
)

// analyze runs the processing pipeline over one file (or stdin) and prints
// the result as JSON. Useful for spot-checking documents without the API.

type analyzeConfig struct {
	LogLevel string `mapstructure:"log_level"`
	Guides   struct {
		SchemaPath  string `mapstructure:"schema_path"`
		CatalogPath string `mapstructure:"catalog_path"`
	}
	Spell struct {
		TermsPath string `mapstructure:"terms_path"`
	}
	Pipeline struct {
		MaxKeywords int `mapstructure:"max_keywords"`
	}
}

var config analyzeConfig

func initConfig() {
	err := lib.InitializeConfig("./config/analyze.yml", map[string]interface{}{
		"log_level": "warn",
		"guides": map[string]interface{}{
			"schema_path":  "./guides/exportacion_cerezas_extraction_schema.json",
			"catalog_path": "./guides/exportacion_cerezas_kb.json",
		},
		"spell": map[string]interface{}{
			"terms_path": "",
		},
		"pipeline": map[string]interface{}{
			"max_keywords": 8,
		},
	}, &config)
	if err != nil {
		panic(err)
	}
}

func main() {
	docType := pflag.String("type", "", "Declared document type, e.g. factura_comercial.")
	initConfig()

	var text string
	if args := pflag.Args(); len(args) > 0 {
		text = textacq.FromFile(args[0], "").Text
	} else {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal().Err(err).Msg("could not read stdin")
		}
		text = string(raw)
	}

	kb := knowledge.Load(config.Guides.SchemaPath, config.Guides.CatalogPath)
	speller := spell.LoadTerms(config.Spell.TermsPath)
	pipe := pipeline.New(kb, speller, config.Pipeline.MaxKeywords)

	result := pipe.Process(text, *docType)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(result); err != nil {
		log.Fatal().Err(err).Msg("could not encode result")
	}
}

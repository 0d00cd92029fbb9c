package main

import (
	"context"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/inovadocs/export-compliance/lib"
	"github.com/inovadocs/export-compliance/lib/knowledge"
	"github.com/inovadocs/export-compliance/lib/pipeline"
	"github.com/inovadocs/export-compliance/lib/spell"
	"github.com/inovadocs/export-compliance/lib/store"
	"github.com/inovadocs/export-compliance/lib/textacq"
)

// config structure
type complianceAPIConfig struct {
	LogLevel string `mapstructure:"log_level"`
	Server   struct {
		HttpPort int `mapstructure:"http_port"`
	}
	Storage struct {
		Dir    string
		DbPath string `mapstructure:"db_path"`
	}
	Guides struct {
		SchemaPath  string `mapstructure:"schema_path"`
		CatalogPath string `mapstructure:"catalog_path"`
	}
	Spell struct {
		TermsPath string `mapstructure:"terms_path"`
	}
	Pipeline struct {
		MaxKeywords int  `mapstructure:"max_keywords"`
		DemoText    bool `mapstructure:"demo_text"`
	}
}

var config complianceAPIConfig

func initConfig() {
	err := lib.InitializeConfig("./config/compliance-api.yml", map[string]interface{}{
		"log_level": "info",
		"server": map[string]interface{}{
			"http_port": 8080,
		},
		"storage": map[string]interface{}{
			"dir":     "./data/uploads",
			"db_path": "./data/compliance.db",
		},
		"guides": map[string]interface{}{
			"schema_path":  "./guides/exportacion_cerezas_extraction_schema.json",
			"catalog_path": "./guides/exportacion_cerezas_kb.json",
		},
		"spell": map[string]interface{}{
			"terms_path": "",
		},
		"pipeline": map[string]interface{}{
			"max_keywords": 8,
			"demo_text":    true,
		},
	}, &config)
	if err != nil {
		panic(err)
	}
}

func main() {
	initConfig()

	db, err := store.Open(context.Background(), config.Storage.DbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", config.Storage.DbPath).Msg("could not open store")
	}
	defer db.Close()

	kb := knowledge.Load(config.Guides.SchemaPath, config.Guides.CatalogPath)
	speller := spell.LoadTerms(config.Spell.TermsPath)
	pipe := pipeline.New(kb, speller, config.Pipeline.MaxKeywords)

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(lib.JsonLogFormatter), gin.Recovery(), cors.Default())

	c := controller{
		store:        db,
		pipe:         pipe,
		storageDir:   config.Storage.Dir,
		capabilities: textacq.Detect(),
		demoFallback: config.Pipeline.DemoText,
	}
	s := server{controller: c}
	s.RegisterRoutes(r)

	if err := r.Run(fmt.Sprintf(":%d", config.Server.HttpPort)); err != nil {
		log.Fatal().Err(err).Send()
	}
}

// Package config loads the fragebank configuration from YAML and the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/fragebank/pagesource"
	"github.com/hazyhaar/fragebank/questionbank"
)

// Config holds the full fragebank configuration.
type Config struct {
	Source            string `yaml:"source"`
	DocumentsRoot     string `yaml:"documents_root"` // MCP tools only open files below it when set
	PDFBackend        string `yaml:"pdf_backend"`    // pdfcpu | pdftotext | text; empty = by extension
	PDFToText         string `yaml:"pdftotext"`
	HeaderPagesToSkip int    `yaml:"header_pages_to_skip"`
	SolutionsKeyword  string `yaml:"solutions_keyword"`
	DBPath            string `yaml:"db_path"`
	CSVPath           string `yaml:"csv_path"`
	CSVDelimiter      string `yaml:"csv_delimiter"`
	JSONPath          string `yaml:"json_path"`
	Listen            string `yaml:"listen"`
	LogLevel          string `yaml:"log_level"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		PDFToText:         pagesource.DefaultPDFToText,
		HeaderPagesToSkip: questionbank.DefaultHeaderPagesToSkip,
		SolutionsKeyword:  questionbank.DefaultSolutionsKeyword,
		DBPath:            "fragebank.db",
		CSVDelimiter:      ",",
		Listen:            ":8090",
		LogLevel:          "info",
	}
}

// Load reads path (skipped when empty), applies FRAGEBANK_* environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	c.Source = env("FRAGEBANK_SOURCE", c.Source)
	c.DocumentsRoot = env("FRAGEBANK_DOCUMENTS_ROOT", c.DocumentsRoot)
	c.PDFBackend = env("FRAGEBANK_PDF_BACKEND", c.PDFBackend)
	c.PDFToText = env("FRAGEBANK_PDFTOTEXT", c.PDFToText)
	c.SolutionsKeyword = env("FRAGEBANK_SOLUTIONS_KEYWORD", c.SolutionsKeyword)
	c.DBPath = env("FRAGEBANK_DB", c.DBPath)
	c.CSVPath = env("FRAGEBANK_CSV", c.CSVPath)
	c.JSONPath = env("FRAGEBANK_JSON", c.JSONPath)
	c.Listen = env("FRAGEBANK_LISTEN", c.Listen)
	c.LogLevel = env("FRAGEBANK_LOG_LEVEL", c.LogLevel)
	if v := os.Getenv("FRAGEBANK_HEADER_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FRAGEBANK_HEADER_PAGES: %w", err)
		}
		c.HeaderPagesToSkip = n
	}
	return nil
}

// Validate checks that values are sane.
func (c *Config) Validate() error {
	if c.HeaderPagesToSkip < 0 {
		return fmt.Errorf("header_pages_to_skip must be >= 0")
	}
	if c.SolutionsKeyword == "" {
		return fmt.Errorf("solutions_keyword is required")
	}
	switch c.PDFBackend {
	case "", pagesource.BackendPDFCPU, pagesource.BackendPDFToText, pagesource.BackendText:
	default:
		return fmt.Errorf("unsupported pdf_backend %q (use pdfcpu, pdftotext or text)", c.PDFBackend)
	}
	if len([]rune(c.CSVDelimiter)) != 1 {
		return fmt.Errorf("csv_delimiter must be a single character, got %q", c.CSVDelimiter)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level %q", c.LogLevel)
	}
	return nil
}

// Delimiter returns CSVDelimiter as a rune.
func (c *Config) Delimiter() rune { return []rune(c.CSVDelimiter)[0] }

// Pipeline returns the extraction settings.
func (c *Config) Pipeline() questionbank.Config {
	return questionbank.Config{
		HeaderPagesToSkip: c.HeaderPagesToSkip,
		SolutionsKeyword:  c.SolutionsKeyword,
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

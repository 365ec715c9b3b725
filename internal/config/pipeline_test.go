package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPipelineSpec_ResolvesRelativeSourceConfigAndSchema(t *testing.T) {
	dir := t.TempDir()
	pipe := []byte(`schema_version: v1
source:
  driver: http
  config: source.yml
sinks: [stdout, kafka]
sink_configs:
  kafka:
    brokers: [localhost:9092]
    topic: lists
    required_acks: -1
server:
  http_addr: ":8080"
  grpc_port: 7070
ui:
  expand_all: true
`)
	if err := os.WriteFile(filepath.Join(dir, "pipeline.yml"), pipe, 0o644); err != nil {
		t.Fatalf("write pipeline: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "source.yml"), []byte("schema_version: v1\n"), 0o644); err != nil {
		t.Fatalf("write source cfg: %v", err)
	}

	cfg, abs, err := LoadPipelineSpec(filepath.Join(dir, "pipeline.yml"))
	if err != nil {
		t.Fatalf("LoadPipelineSpec: %v", err)
	}
	if cfg.SchemaVersion != SupportedSchema {
		t.Fatalf("want schema %s, got %s", SupportedSchema, cfg.SchemaVersion)
	}
	if abs == "" || !filepath.IsAbs(abs) {
		t.Fatalf("want absolute source config path, got %q", abs)
	}
	if len(cfg.Sinks) != 2 || cfg.SinkConfigs.Kafka.Topic != "lists" || cfg.SinkConfigs.Kafka.RequiredAcks != -1 {
		t.Fatalf("unexpected sinks: %+v / %+v", cfg.Sinks, cfg.SinkConfigs)
	}
	if cfg.Server.GRPCPort != 7070 || !cfg.UI.ExpandAll || cfg.UI.Theme != "auto" {
		t.Fatalf("unexpected server/ui sections: %+v %+v", cfg.Server, cfg.UI)
	}

	src, err := LoadSourceConfig(abs)
	if err != nil {
		t.Fatalf("LoadSourceConfig: %v", err)
	}
	if src.Driver != "http" {
		t.Fatalf("want default http driver, got %q", src.Driver)
	}
}

func TestLoadPipelineSpec_InvalidSchema(t *testing.T) {
	dir := t.TempDir()
	pipe := []byte(`schema_version: v999
source: { driver: http, config: s.yml }
sinks: [stdout]
`)
	if err := os.WriteFile(filepath.Join(dir, "pipeline.yml"), pipe, 0o644); err != nil {
		t.Fatalf("write pipeline: %v", err)
	}
	_, _, err := LoadPipelineSpec(filepath.Join(dir, "pipeline.yml"))
	if err == nil {
		t.Fatal("expected error for invalid schema_version")
	}
}

func TestLoadPipelineSpec_Missing(t *testing.T) {
	_, _, err := LoadPipelineSpec(filepath.Join(t.TempDir(), "nope.yml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	d := Default()
	if d.SchemaVersion != SupportedSchema || len(d.Sinks) != 1 || d.Sinks[0] != "stdout" {
		t.Fatalf("unexpected default: %+v", d)
	}
}

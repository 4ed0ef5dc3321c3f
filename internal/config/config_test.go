package config

import "testing"

func TestBrokersSplitsAndTrims(t *testing.T) {
	cfg := &AppConfig{KafkaBrokers: " broker-1:9092, broker-2:9092 ,,"}
	brokers := cfg.Brokers()
	if len(brokers) != 2 {
		t.Fatalf("expected 2 brokers, got %v", brokers)
	}
	if brokers[0] != "broker-1:9092" || brokers[1] != "broker-2:9092" {
		t.Fatalf("unexpected brokers: %v", brokers)
	}
}

func TestBrokersEmptyMeansMessagingOff(t *testing.T) {
	cfg := &AppConfig{KafkaBrokers: "   "}
	if got := cfg.Brokers(); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}

	var nilCfg *AppConfig
	if got := nilCfg.Brokers(); got != nil {
		t.Fatalf("expected nil for nil config, got %v", got)
	}
}

func TestResolveHTTPPort(t *testing.T) {
	cfg := &AppConfig{HTTPPort: "9000"}
	if got := cfg.ResolveHTTPPort("8081"); got != "9000" {
		t.Fatalf("expected configured port, got %s", got)
	}

	cfg = &AppConfig{HTTPPort: "  "}
	if got := cfg.ResolveHTTPPort("8081"); got != "8081" {
		t.Fatalf("expected fallback port, got %s", got)
	}

	var nilCfg *AppConfig
	if got := nilCfg.ResolveHTTPPort(""); got != defaultHTTPPort {
		t.Fatalf("expected default port, got %s", got)
	}
}

package scoringconfig

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Parse decodes and validates a dimension table document
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Parse(data []byte) (*Tables, error) {
	var t Tables
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decode dimension tables: %w", err)
	}

	if err := Validate(&t); err != nil {
		return nil, err
	}

	return &t, nil
}

// Default returns the embedded tables, parsed once per process.
// A broken embedded file is a build defect, so it panics.
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := Parse(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("scoringconfig: embedded default.yaml: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

// DefaultYAML returns the embedded document as shipped
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Hash generates SHA256 hash from Tables (canonical JSON)
// 주의: map 대신 struct 사용으로 해시 재현성 보장
func Hash(t *Tables) (string, error) {
	jsonBytes, err := json.Marshal(t)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// Package testcase loads conformance test suites from JSON or YAML.
package testcase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads, parses, and validates a suite file. A suite is either a bare
// list of cases or a {version, cases} document.
func Load(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("read test suite: %w", err)
	}
	file, err := parse(data, path)
	if err != nil {
		return Suite{}, err
	}
	suite, err := normalizeSuite(file)
	if err != nil {
		return Suite{}, err
	}
	suite.Path = path
	return suite, nil
}

func parse(data []byte, path string) (suiteFile, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		return parseJSON(data)
	}
	return parseYAML(data)
}

func parseJSON(data []byte) (suiteFile, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var cases []rawCase
		if err := decodeJSON(trimmed, &cases); err != nil {
			return suiteFile{}, err
		}
		return suiteFile{Version: 1, Cases: cases}, nil
	}
	var file suiteFile
	if err := decodeJSON(trimmed, &file); err != nil {
		return suiteFile{}, err
	}
	return file, nil
}

func decodeJSON(data []byte, target any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("parse json: multiple documents are not supported")
		}
		return fmt.Errorf("parse json: %w", err)
	}
	return nil
}

func parseYAML(data []byte) (suiteFile, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return suiteFile{}, fmt.Errorf("parse yaml: %w", err)
	}
	if len(root.Content) > 0 && root.Content[0].Kind == yaml.SequenceNode {
		var cases []rawCase
		if err := decodeYAML(data, &cases); err != nil {
			return suiteFile{}, err
		}
		return suiteFile{Version: 1, Cases: cases}, nil
	}
	var file suiteFile
	if err := decodeYAML(data, &file); err != nil {
		return suiteFile{}, err
	}
	return file, nil
}

func decodeYAML(data []byte, target any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(target); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// Package seed loads prompt definitions from YAML and writes them to the database.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"

	"versu/versu/sources/psql/dao"
	"versu/versu/sources/psql/models"
	"versu/versu/utils/logging"
	"versu/versu/utils/types"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

type PromptDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Content     string `yaml:"content"`
	Active      bool   `yaml:"active"`
}

type File struct {
	Prompts []PromptDef `yaml:"prompts"`
}

func Default() (*File, error) {
	return Parse(bytes.NewReader(defaultPrompts))
}

// Parse decodes a seed file and rejects definitions the API would also reject.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	seen := make(map[string]bool, len(f.Prompts))
	active := 0
	for i, p := range f.Prompts {
		if err := types.Validate(p.request()); err != nil {
			return nil, fmt.Errorf("prompt %d: %w", i, err)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("prompt %q defined twice", p.Name)
		}
		seen[p.Name] = true
		if p.Active {
			active++
		}
	}
	if active > 1 {
		return nil, fmt.Errorf("%d prompts marked active, at most one allowed", active)
	}
	return &f, nil
}

// request maps a definition onto the body the prompts API validates.
func (d PromptDef) request() types.CreatePromptRequest {
	req := types.CreatePromptRequest{Name: d.Name, Content: d.Content, IsActive: d.Active}
	if d.Description != "" {
		req.Description = &d.Description
	}
	return req
}

// Prompts upserts every definition by name and returns how many were written.
func Prompts(ctx context.Context, prompts *dao.PromptDAO, f *File) (int, error) {
	defer logging.LogDuration(ctx, "SeedPrompts")()
	for _, def := range f.Prompts {
		p := &models.Prompt{Name: def.Name, Content: def.Content, IsActive: def.Active}
		if def.Description != "" {
			desc := def.Description
			p.Description = &desc
		}
		if err := prompts.UpsertPromptByName(ctx, p); err != nil {
			return 0, fmt.Errorf("upsert prompt %q: %w", def.Name, err)
		}
		logging.AppLogger.Info("prompt seeded", zap.String("name", p.Name), zap.Bool("active", p.IsActive))
	}
	return len(f.Prompts), nil
}

package commands

import (
	"context"

	"github.com/dpshade/prompt-builder/internal/models"
	"github.com/dpshade/prompt-builder/internal/service"
)

// ListTemplatesParams are the parameters of the list-templates command
type ListTemplatesParams struct {
	Search string `json:"search"`
}

// ListTemplatesCommand lists the template catalog, optionally fuzzy filtered
type ListTemplatesCommand struct {
	deps
	params ListTemplatesParams
}

func (c *ListTemplatesCommand) SetParameters(params map[string]interface{}) error {
	return decodeParams(params, &c.params)
}

func (c *ListTemplatesCommand) Validate() error {
	return nil
}

func (c *ListTemplatesCommand) GetName() string {
	return CommandListTemplates
}

func (c *ListTemplatesCommand) GetDescription() string {
	return "List the prompt templates"
}

func (c *ListTemplatesCommand) Execute(ctx context.Context) (*CommandResult, error) {
	templates := service.SearchTemplates(c.params.Search)
	if templates == nil {
		templates = []models.Template{}
	}
	return &CommandResult{Success: true, Data: templates}, nil
}

// ConstraintKindInfo describes one constraint kind
type ConstraintKindInfo struct {
	Kind        models.ConstraintKind `json:"kind"`
	Label       string                `json:"label"`
	Placeholder string                `json:"placeholder"`
}

// ListConstraintKindsCommand lists the closed set of constraint kinds
type ListConstraintKindsCommand struct{}

func (c *ListConstraintKindsCommand) Validate() error {
	return nil
}

func (c *ListConstraintKindsCommand) GetName() string {
	return CommandListConstraintKinds
}

func (c *ListConstraintKindsCommand) GetDescription() string {
	return "List the constraint kinds and their labels"
}

func (c *ListConstraintKindsCommand) Execute(ctx context.Context) (*CommandResult, error) {
	kinds := models.ConstraintKinds()
	infos := make([]ConstraintKindInfo, 0, len(kinds))
	for _, k := range kinds {
		infos = append(infos, ConstraintKindInfo{Kind: k, Label: k.Label(), Placeholder: k.Placeholder()})
	}
	return &CommandResult{Success: true, Data: infos}, nil
}

// HealthResult is the data of the health command
type HealthResult struct {
	OK bool `json:"ok"`
	// Upstream reports whether generation reaches a real model rather than the
	// fixed fallback text
	Upstream bool `json:"upstream"`
}

// HealthCheckCommand provides system health information
type HealthCheckCommand struct {
	deps
}

func (c *HealthCheckCommand) Validate() error {
	return nil
}

func (c *HealthCheckCommand) GetName() string {
	return CommandHealth
}

func (c *HealthCheckCommand) GetDescription() string {
	return "Check system health and generator status"
}

func (c *HealthCheckCommand) Execute(ctx context.Context) (*CommandResult, error) {
	upstream := false
	if configured, ok := c.generator.(interface{ Configured() bool }); ok {
		upstream = configured.Configured()
	}
	return &CommandResult{
		Success: true,
		Data:    HealthResult{OK: true, Upstream: upstream},
		Message: "System is healthy",
	}, nil
}

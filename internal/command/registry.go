package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownCommand is returned when a command dispatch is attempted for an
// unregistered key.
var ErrUnknownCommand = errors.New("unknown command")

// Registry stores command handlers keyed by their canonical names and aliases.
type Registry struct {
	mu        sync.RWMutex
	handlers  map[string]Command
	aliasKeys map[string]string
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers:  make(map[string]Command),
		aliasKeys: make(map[string]string),
	}
}

// Register adds a command handler to the registry. Names and aliases are
// stored in lowercase form to provide case-insensitive lookups.
func (r *Registry) Register(handler Command) {
	if handler == nil {
		return
	}

	name := strings.ToLower(handler.Name())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
	for _, alias := range handler.Aliases() {
		r.aliasKeys[strings.ToLower(alias)] = name
	}
}

// Execute splits line into a command key and arguments and runs the handler.
func (r *Registry) Execute(ctx context.Context, line string) error {
	if r == nil {
		return fmt.Errorf("command registry is nil")
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	handler := r.getHandler(fields[0])
	if handler == nil {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}

	return handler.Execute(ctx, fields[1:])
}

// Count returns the number of registered command handlers.
func (r *Registry) Count() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Commands returns the handlers sorted by name.
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, 0, len(r.handlers))
	for _, h := range r.handlers {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func (r *Registry) getHandler(key string) Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if key == "" {
		return nil
	}
	key = strings.ToLower(key)
	if handler, ok := r.handlers[key]; ok {
		return handler
	}
	if name, ok := r.aliasKeys[key]; ok {
		return r.handlers[name]
	}
	return nil
}

// NewDefaultRegistry registers every session command.
func NewDefaultRegistry(deps *Dependencies) *Registry {
	r := NewRegistry()
	r.Register(NewAnalyzeCommand(deps))
	r.Register(NewStatusCommand(deps))
	r.Register(NewStrategyCommand(deps))
	r.Register(NewPlanCommand(deps))
	r.Register(NewToggleCommand(deps))
	r.Register(NewScheduleCommand(deps))
	r.Register(NewResetCommand(deps))
	r.Register(NewHelpCommand(deps, r))
	return r
}

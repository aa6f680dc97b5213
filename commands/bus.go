// Package commands receives the out-of-band executeSection messages from the
// companion control surface over NATS and routes them to the repeatable-row
// handlers. Replies go back on the message's reply subject.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"catastro/engine"
	"catastro/sections"
)

const (
	// ActionExecuteSection triggers a repeatable section's row loop.
	ActionExecuteSection = "executeSection"

	defaultSubject = "ficha.commands"
)

// Command is the inbound message envelope.
type Command struct {
	Action  string         `json:"action"`
	Section string         `json:"section"`
	Data    []sections.Row `json:"data"`
}

// Response is the asynchronous reply.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Executor is what a command runs against; satisfied by the run wiring in
// cmd/formfiller.
type Executor interface {
	ExecuteConstrucciones(ctx context.Context, rows []sections.Row) error
	ExecuteObras(ctx context.Context, rows []sections.Row) error
}

// Config holds the NATS connection parameters.
type Config struct {
	URL     string
	Subject string
}

// Bus subscribes to the command subject and dispatches. Commands run one at a
// time: the live form cannot take interleaved row sequences.
type Bus struct {
	nc      *nats.Conn
	subject string
	log     engine.Logger
	exec    Executor
	serial  chan struct{}
}

// NewBus connects and subscribes.
func NewBus(cfg Config, exec Executor, log engine.Logger) (*Bus, error) {
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url,
		nats.Name("catastro-formfiller"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	subject := cfg.Subject
	if subject == "" {
		subject = defaultSubject
	}
	b := &Bus{
		nc:      nc,
		subject: subject,
		log:     log,
		exec:    exec,
		serial:  make(chan struct{}, 1),
	}
	if _, err := nc.Subscribe(subject, b.onMessage); err != nil {
		nc.Close()
		return nil, err
	}
	engine.Info(log, "Escuchando comandos en «%s»", subject)
	return b, nil
}

// NewLocalBus builds a dispatcher without a NATS connection, for deployments
// where commands only arrive over the HTTP mirror.
func NewLocalBus(exec Executor, log engine.Logger) *Bus {
	return &Bus{
		log:    log,
		exec:   exec,
		serial: make(chan struct{}, 1),
	}
}

// Close drains the subscription when one exists.
func (b *Bus) Close() {
	if b.nc != nil {
		_ = b.nc.Drain()
	}
}

func (b *Bus) onMessage(msg *nats.Msg) {
	var cmd Command
	if err := json.Unmarshal(msg.Data, &cmd); err != nil {
		b.reply(msg, Response{Success: false, Error: fmt.Sprintf("comando ilegible: %v", err)})
		return
	}
	resp := b.Dispatch(context.Background(), cmd)
	b.reply(msg, resp)
}

// Dispatch validates and runs a command, converting any failure (including a
// panic in the handler) into a Response. A broken command never takes the
// process down or blocks later commands.
func (b *Bus) Dispatch(ctx context.Context, cmd Command) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = Response{Success: false, Error: fmt.Sprintf("pánico: %v", r)}
			engine.Error(b.log, "Comando «%s/%s»: %v", cmd.Action, cmd.Section, r)
		}
	}()

	if err := Validate(cmd); err != nil {
		return Response{Success: false, Error: err.Error()}
	}

	// One command at a time against the live form.
	b.serial <- struct{}{}
	defer func() { <-b.serial }()

	var err error
	switch cmd.Section {
	case sections.SecConstrucciones:
		err = b.exec.ExecuteConstrucciones(ctx, cmd.Data)
	case sections.SecObras:
		err = b.exec.ExecuteObras(ctx, cmd.Data)
	}
	if err != nil {
		engine.Error(b.log, "Comando «%s/%s» falló: %v", cmd.Action, cmd.Section, err)
		return Response{Success: false, Error: err.Error()}
	}
	return Response{Success: true}
}

func (b *Bus) reply(msg *nats.Msg, resp Response) {
	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_ = msg.Respond(data)
}

// Validate checks a command envelope before anything touches the page.
func Validate(cmd Command) error {
	if cmd.Action != ActionExecuteSection {
		return fmt.Errorf("acción desconocida: «%s»", cmd.Action)
	}
	switch cmd.Section {
	case sections.SecConstrucciones, sections.SecObras:
	default:
		return fmt.Errorf("sección no ejecutable por comando: «%s»", cmd.Section)
	}
	if len(cmd.Data) == 0 {
		return fmt.Errorf("el comando no trae filas")
	}
	return nil
}

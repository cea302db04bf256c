package packer

import (
	"bytes"
	"context"
	"os/exec"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/zerr"
)

// Request is the CBOR document written to an external packer's stdin.
type Request struct {
	Inputs  []domain.PackInput `cbor:"inputs"`
	Options map[string]any     `cbor:"options"`
}

// Response is the CBOR document an external packer writes to stdout.
// A non-empty Error fails the atlas.
type Response struct {
	Outputs []domain.OutputAsset `cbor:"outputs"`
	Error   string               `cbor:"error,omitempty"`
}

// decMode decodes untyped maps as map[string]any so nested options stay JSON-like.
var decMode = func() cbor.DecMode {
	mode, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

// Process runs an external command once per atlas.
type Process struct {
	command []string
}

// NewProcess creates a packer running command. The first element is the program.
func NewProcess(command []string) *Process {
	return &Process{command: append([]string(nil), command...)}
}

// Pack implements ports.Packer.
func (p *Process) Pack(ctx context.Context, inputs []domain.PackInput, options domain.PackerOptions) ([]domain.OutputAsset, error) {
	if len(p.command) == 0 {
		return nil, zerr.Wrap(zerr.New("empty packer command"), domain.ErrPackerProcessFailed.Error())
	}

	req, err := cbor.Marshal(Request{Inputs: inputs, Options: options})
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrPackerProcessFailed.Error())
	}

	//nolint:gosec // the command comes from the project configuration
	cmd := exec.CommandContext(ctx, p.command[0], p.command[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(req)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		wrapped := zerr.With(zerr.Wrap(err, domain.ErrPackerProcessFailed.Error()), "command", strings.Join(p.command, " "))
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			wrapped = zerr.With(wrapped, "stderr", msg)
		}
		return nil, wrapped
	}

	var resp Response
	if err := decMode.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, zerr.Wrap(err, domain.ErrPackerProcessFailed.Error())
	}
	if resp.Error != "" {
		return nil, zerr.Wrap(zerr.New(resp.Error), domain.ErrPackFailed.Error())
	}
	return resp.Outputs, nil
}

// DecodeRequest decodes a request the way Pack encodes it. External packers
// written in Go can use it to read their stdin.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	err := decMode.Unmarshal(data, &req)
	return req, err
}

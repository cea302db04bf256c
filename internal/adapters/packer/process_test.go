package packer_test

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/atlas/internal/adapters/packer"
	"go.trai.ch/atlas/internal/core/domain"
)

const helperEnv = "ATLAS_TEST_PACKER"

// TestMain turns the test binary into an external packer when helperEnv is set.
func TestMain(m *testing.M) {
	if mode := os.Getenv(helperEnv); mode != "" {
		os.Exit(runHelperPacker(mode))
	}
	os.Exit(m.Run())
}

func runHelperPacker(mode string) int {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return 3
	}
	req, err := packer.DecodeRequest(data)
	if err != nil {
		return 4
	}

	var resp packer.Response
	switch mode {
	case "echo":
		names := make([]string, 0, len(req.Inputs))
		for _, in := range req.Inputs {
			names = append(names, in.Name)
		}
		texture, _ := req.Options[domain.OptionTextureName].(string)
		app, _ := req.Options[domain.OptionAppInfo].(map[string]any)
		version, _ := app["version"].(string)
		resp.Outputs = []domain.OutputAsset{
			{Name: texture + ".png", Contents: []byte(strings.Join(names, ","))},
			{Name: texture + ".json", Contents: []byte(version)},
		}
	case "reject":
		resp.Error = "atlas too large"
	case "crash":
		_, _ = os.Stderr.WriteString("segfault in packer")
		return 2
	}

	out, err := cbor.Marshal(resp)
	if err != nil {
		return 5
	}
	_, _ = os.Stdout.Write(out)
	return 0
}

func helperCommand() []string {
	return []string{os.Args[0]}
}

func TestProcess_Pack(t *testing.T) {
	t.Setenv(helperEnv, "echo")

	inputs := []domain.PackInput{
		{Name: "ui/a.png", Contents: []byte{1}},
		{Name: "ui/b.png", Contents: []byte{2}},
	}
	opts := domain.ResolvePackerOptions(domain.PackerOptions{"custom": map[string]any{"depth": 2}},
		&domain.AtlasConfig{Name: "ui"}, domain.AppInfo{Version: "1.2.3"})

	outputs, err := packer.NewProcess(helperCommand()).Pack(t.Context(), inputs, opts)
	require.NoError(t, err)

	assert.Equal(t, []domain.OutputAsset{
		{Name: "ui.png", Contents: []byte("ui/a.png,ui/b.png")},
		{Name: "ui.json", Contents: []byte("1.2.3")},
	}, outputs)
}

func TestProcess_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		command []string
		wantErr []string
	}{
		{
			name:    "packer reports an error",
			mode:    "reject",
			command: helperCommand(),
			wantErr: []string{domain.ErrPackFailed.Error(), "atlas too large"},
		},
		{
			name:    "packer exits unsuccessfully",
			mode:    "crash",
			command: helperCommand(),
			wantErr: []string{domain.ErrPackerProcessFailed.Error()},
		},
		{
			name:    "missing program",
			mode:    "echo",
			command: []string{"atlas-packer-that-does-not-exist"},
			wantErr: []string{domain.ErrPackerProcessFailed.Error()},
		},
		{
			name:    "empty command",
			mode:    "echo",
			wantErr: []string{domain.ErrPackerProcessFailed.Error()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(helperEnv, tt.mode)

			_, err := packer.NewProcess(tt.command).Pack(t.Context(), nil, domain.PackerOptions{})
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.ErrorContains(t, err, want)
			}
		})
	}
}

func TestFactory(t *testing.T) {
	p, err := packer.Factory{}.NewPacker(domain.PackerSettings{})
	require.NoError(t, err)
	assert.IsType(t, &packer.Builtin{}, p)

	p, err = packer.Factory{}.NewPacker(domain.PackerSettings{Command: []string{"texture-packer"}})
	require.NoError(t, err)
	assert.IsType(t, &packer.Process{}, p)
}

package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/profrag/internal/config"
)

func TestSetupLogger_DevAndProd(t *testing.T) {
	lg := SetupLogger(config.Config{AppEnv: "dev", OTELServiceName: "svc"}, "01HZX")
	if lg == nil {
		t.Fatalf("nil logger")
	}
	lg2 := SetupLogger(config.Config{AppEnv: "prod", OTELServiceName: "svc"}, "")
	if lg2 == nil {
		t.Fatalf("nil logger prod")
	}
}

func TestNewLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	lg := newLogger(&buf, config.Config{AppEnv: "prod", OTELServiceName: "profrag"}, "run-1")
	lg.Debug("hidden")
	lg.Info("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), buf.String())
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "profrag", rec["service"])
	assert.Equal(t, "prod", rec["env"])
	assert.Equal(t, "run-1", rec["run_id"])
}

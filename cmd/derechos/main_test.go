package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lmittmann/tint"
	"github.com/poiesic/derechos"
	"github.com/poiesic/derechos/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testDataDir = "../../data/PE"

func findStringFlag(flags []cli.Flag, name string) *cli.StringFlag {
	for _, flag := range flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func findCommand(app *cli.App, name string) *cli.Command {
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

// run executes the app against dbPath and returns what it printed.
func run(t *testing.T, dbPath string, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = strings.NewReader(input)

	full := append([]string{"derechos", "--db", dbPath, "--data", testDataDir}, args...)
	err := app.Run(full)
	return out.String(), err
}

func buildTestDatabase(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "derechos.db")
	_, err := run(t, dbPath, "", "build")
	require.NoError(t, err)
	return dbPath
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "info", "warn", "error", "WARN"} {
		_, err := parseLevel(s)
		assert.NoError(t, err, s)
	}

	level, err := parseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = parseLevel("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestAppFlags(t *testing.T) {
	app := newApp()

	t.Run("db has default value", func(t *testing.T) {
		f := findStringFlag(app.Flags, "db")
		require.NotNil(t, f)
		assert.Equal(t, defaultDBPath, f.Value)
		assert.False(t, f.Required)
	})

	t.Run("data has default value", func(t *testing.T) {
		f := findStringFlag(app.Flags, "data")
		require.NotNil(t, f)
		assert.Equal(t, defaultDataPath, f.Value)
	})

	t.Run("log-level defaults to warn", func(t *testing.T) {
		f := findStringFlag(app.Flags, "log-level")
		require.NotNil(t, f)
		assert.Equal(t, "warn", f.Value)
	})

	t.Run("flags have no EnvVars", func(t *testing.T) {
		for _, name := range []string{"db", "data", "log-level"} {
			f := findStringFlag(app.Flags, name)
			require.NotNil(t, f)
			assert.Empty(t, f.EnvVars, name)
		}
	})

	t.Run("commands", func(t *testing.T) {
		for _, name := range []string{"build", "validate", "search", "show", "contexts", "rights", "contacts", "sources", "myths", "evaluate"} {
			assert.NotNil(t, findCommand(app, name), name)
		}
	})

	t.Run("search limit defaults to 3", func(t *testing.T) {
		cmd := findCommand(app, "search")
		require.NotNil(t, cmd)
		var limit *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "limit" {
				limit = f
			}
		}
		require.NotNil(t, limit)
		assert.Equal(t, 3, limit.Value)
	})
}

func TestReplaceErrAttr(t *testing.T) {
	boom := errors.New("boom")

	t.Run("err key is highlighted", func(t *testing.T) {
		assert.Equal(t, tint.Err(boom), replaceErrAttr(nil, slog.Any("err", boom)))
	})

	t.Run("other keys pass through", func(t *testing.T) {
		a := slog.Any("error", boom)
		assert.Equal(t, a, replaceErrAttr(nil, a))
		s := slog.String("err", "not an error")
		assert.Equal(t, s, replaceErrAttr(nil, s))
	})

	t.Run("handler writes the error", func(t *testing.T) {
		var buf bytes.Buffer
		slog.New(newLogHandler(&buf, slog.LevelInfo)).Error("install failed", "err", boom)
		assert.Contains(t, buf.String(), "install failed")
		assert.Contains(t, buf.String(), "err=boom")
	})
}

func TestSetupLogger_InvalidLevel(t *testing.T) {
	_, err := run(t, t.TempDir(), "", "--log-level", "loud", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "PE: 14 situaciones")

	app := newApp()
	app.Writer = io.Discard
	app.ErrWriter = io.Discard
	err = app.Run([]string{"derechos", "--data", t.TempDir(), "validate"})
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "derechos.db")
	sqlitePath := filepath.Join(dir, "derechos.sqlite")

	out, err := run(t, dbPath, "", "build", "--sqlite", sqlitePath)
	require.NoError(t, err)
	assert.Contains(t, out, "CATÁLOGO INSTALADO")
	assert.Contains(t, out, "situations")
	assert.Contains(t, out, sqlitePath)
	assert.FileExists(t, sqlitePath)
}

func TestSearchCommand(t *testing.T) {
	dbPath := buildTestDatabase(t)

	t.Run("best match with details", func(t *testing.T) {
		out, err := run(t, dbPath, "", "search", "me", "piden", "el", "DNI")
		require.NoError(t, err)
		assert.Contains(t, out, "Control de identidad: me piden el DNI")
		assert.Contains(t, out, "TUS DERECHOS")
		assert.Contains(t, out, "QUÉ HACER (PASO A PASO)")
		assert.Contains(t, out, "A QUIÉN LLAMAR")
		assert.Contains(t, out, "NO es asesoría legal")
		assert.Contains(t, out, "Fuente: Constitución Política del Perú, Artículo 2")
		assert.NotContains(t, out, "[explain]")
	})

	t.Run("explain shows components", func(t *testing.T) {
		out, err := run(t, dbPath, "", "search", "--explain", "me", "piden", "el", "DNI")
		require.NoError(t, err)
		assert.Contains(t, out, "[explain]")
		assert.Contains(t, out, "natural=1.000")
	})

	t.Run("no match suggests phrasings", func(t *testing.T) {
		out, err := run(t, dbPath, "", "search", "xyzabc123")
		require.NoError(t, err)
		assert.Contains(t, out, "No se encontraron situaciones relevantes.")
		assert.Contains(t, out, "quieren revisar mi mochila")
	})

	t.Run("interactive until exit word", func(t *testing.T) {
		out, err := run(t, dbPath, "\nme encuentran con marihuana\nsalir\nnunca se lee\n", "search")
		require.NoError(t, err)
		assert.Contains(t, out, "Modo interactivo")
		assert.Contains(t, out, "Me encuentran con marihuana")
		assert.Contains(t, out, "LÍMITES DE TIEMPO")
		assert.NotContains(t, out, "nunca se lee")
	})

	t.Run("interactive ends at EOF", func(t *testing.T) {
		_, err := run(t, dbPath, "grabar a la policia", "search")
		assert.NoError(t, err)
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := run(t, dbPath, "", "search", "--limit", "0", "dni")
		assert.Error(t, err)
	})

	t.Run("missing database", func(t *testing.T) {
		_, err := run(t, filepath.Join(t.TempDir(), "missing"), "", "search", "dni")
		require.Error(t, err)
		assert.ErrorIs(t, err, derechos.ErrDataSourceUnavailable)
		assert.Contains(t, err.Error(), "derechos build")
	})
}

func TestShowCommand(t *testing.T) {
	dbPath := buildTestDatabase(t)

	t.Run("grouped by context", func(t *testing.T) {
		out, err := run(t, dbPath, "", "show", "home_entry")
		require.NoError(t, err)
		assert.Contains(t, out, "La policía quiere entrar a mi casa")
		assert.Contains(t, out, "Contexto: normal")
		assert.Contains(t, out, "Contexto: estado_emergencia")
		assert.Contains(t, out, "[RESTRINGIDO]")
	})

	t.Run("parent lists child situations", func(t *testing.T) {
		out, err := run(t, dbPath, "", "show", "police_id_check")
		require.NoError(t, err)
		assert.Contains(t, out, "SITUACIONES RELACIONADAS")
		assert.Contains(t, out, "Me niego a mostrar mis documentos (refuse_show_documents)")
	})

	t.Run("child links back to parent", func(t *testing.T) {
		out, err := run(t, dbPath, "", "show", "refuse_show_documents")
		require.NoError(t, err)
		assert.Contains(t, out, "(police_id_check)")
		assert.Contains(t, out, "Fuente: Constitución Política del Perú, Artículo 2")
	})

	t.Run("single context", func(t *testing.T) {
		out, err := run(t, dbPath, "", "show", "--context", "estado_emergencia", "home_entry")
		require.NoError(t, err)
		assert.NotContains(t, out, "Contexto: normal")
	})

	t.Run("unknown situation", func(t *testing.T) {
		_, err := run(t, dbPath, "", "show", "does_not_exist")
		assert.Error(t, err)
	})

	t.Run("id required", func(t *testing.T) {
		_, err := run(t, dbPath, "", "show")
		assert.Error(t, err)
	})
}

func TestReferenceCommands(t *testing.T) {
	dbPath := buildTestDatabase(t)

	out, err := run(t, dbPath, "", "contexts")
	require.NoError(t, err)
	assert.Contains(t, out, "Estado de emergencia")
	assert.NotContains(t, out, "ESTADO DE EMERGENCIA VIGENTE")

	out, err = run(t, dbPath, "", "rights")
	require.NoError(t, err)
	assert.Contains(t, out, "Derecho a conocer el motivo de la intervención")
	assert.Contains(t, out, "[NUNCA SE SUSPENDE]")
	assert.Contains(t, out, "Fuente: Constitución Política del Perú, Artículo 2")

	out, err = run(t, dbPath, "", "contacts")
	require.NoError(t, err)
	assert.Contains(t, out, "CONTACTOS")
	assert.Contains(t, out, "Defensoría del Pueblo")
	assert.Contains(t, out, "0800-15-170")

	out, err = run(t, dbPath, "", "sources")
	require.NoError(t, err)
	assert.Contains(t, out, "FUENTES LEGALES")
	assert.Contains(t, out, "Artículo 137")
	assert.Contains(t, out, "https://www.congreso.gob.pe/constitucion")

	out, err = run(t, dbPath, "", "myths")
	require.NoError(t, err)
	assert.Contains(t, out, "Grabar a un policía es delito.")
	assert.Contains(t, out, "Realidad:")
}

func TestEvaluateCommand(t *testing.T) {
	dbPath := buildTestDatabase(t)

	out, err := run(t, dbPath, "", "evaluate")
	require.NoError(t, err)
	assert.Contains(t, out, "EVALUACIÓN")
	assert.Contains(t, out, "(100%)")

	_, err = run(t, dbPath, "", "evaluate", "--cases", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

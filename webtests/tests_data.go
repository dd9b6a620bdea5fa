package webtests

import (
	"os"
	"path/filepath"

	"github.com/stretchr/testify/require"

	"github.com/qaengine/webtest-harness/assertions"
	"github.com/qaengine/webtest-harness/data"
)

// The data workflow tests write their own fixture files into a temporary
// directory so the suite stays self-contained. The directory is removed
// afterwards when the environment asks for test data cleanup.
func DoDataWorkflowTests(t *T) {
	t.Run("fixtures drive user creation", func(t *T) {
		dir, cleanup := makeFixtures(t)
		defer cleanup()
		store := data.NewStore(dir, nil)

		rows, err := store.LoadCSV("users.csv", "users")
		require.NoError(t, err)
		a := t.Assert()
		a.HasLength(rows, 2, "", assertions.LevelHard)

		t.RequireLogin()
		resp, err := t.Client().Get("/users", nil)
		require.NoError(t, err)
		before := resp.JSONValue("total").IntValue()

		for _, row := range rows {
			resp, err := t.Client().Post("/users", userPayload(row["name"], row["email"]))
			require.NoError(t, err)
			a.Equals(resp.StatusCode, 201, "creating "+row["email"]+" should succeed", assertions.LevelSoft)
		}

		resp, err = t.Client().Get("/users", nil)
		require.NoError(t, err)
		a.Equals(resp.JSONValue("total").IntValue(), before+2, "all fixture users should be stored", assertions.LevelSoft)
	})

	t.Run("json and yaml fixtures agree", func(t *T) {
		dir, cleanup := makeFixtures(t)
		defer cleanup()
		store := data.NewStore(dir, nil)

		doc, err := store.LoadJSON("settings.json", "settings")
		require.NoError(t, err)
		yml, err := store.LoadYAML("settings.yaml", "")
		require.NoError(t, err)

		a := t.Assert()
		a.Equals(doc.GetByKey("retries").IntValue(), 3, "", assertions.LevelSoft)
		a.Equals(yml["retries"], 3, "", assertions.LevelSoft)

		_, cached := store.Cached("settings")
		a.IsTrue(cached, "loaded data should be cached under its key", assertions.LevelSoft)
	})

	t.Run("generated users are accepted by the api", func(t *T) {
		gen := data.NewGenerator(0)
		t.RequireLogin()
		a := t.Assert()

		for i := 0; i < 3; i++ {
			u := gen.User()
			resp, err := t.Client().Post("/users", userPayload(u.Name, u.Email))
			require.NoError(t, err)
			a.Equals(resp.StatusCode, 201, "generated user should be accepted", assertions.LevelSoft)
			a.Contains(u.Email, "@", "", assertions.LevelWarning)
		}
	})
}

// makeFixtures writes the fixture files and returns the directory plus a
// cleanup function. Cleanup is a no-op when the environment keeps test data
// around for inspection.
func makeFixtures(t *T) (string, func()) {
	dir, err := os.MkdirTemp("", "webtest-fixtures-")
	require.NoError(t, err)

	files := map[string]string{
		"users.csv":     "name,email\nIvy Fixture,ivy.fixture@example.com\nMax Fixture,max.fixture@example.com\n",
		"settings.json": `{"retries": 3, "strict": true}`,
		"settings.yaml": "retries: 3\nstrict: true\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}

	cleanup := func() {
		if t.Config().TestDataCleanup {
			_ = os.RemoveAll(dir)
		}
	}
	return dir, cleanup
}

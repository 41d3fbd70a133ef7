package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/powchain/app/services/viewer/handlers"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Index(t *testing.T) {
	t.Log("Given the need to serve the viewer page.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen requesting the index.", testID)
		{
			app, err := handlers.UIMux(make(chan os.Signal, 1), zap.NewNop().Sugar(), "localhost:8080")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the mux: %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to construct the mux.", success, testID)

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()
			app.ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould receive a 200 : %d", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a 200.", success, testID)

			body, _ := io.ReadAll(w.Body)
			if !strings.Contains(string(body), "localhost:8080") || !strings.Contains(string(body), "events") {
				t.Logf("\t\tTest %d:\tgot: %s", testID, body)
				t.Fatalf("\t%s\tTest %d:\tShould point the page at the node events.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould point the page at the node events.", success, testID)
		}
	}
}

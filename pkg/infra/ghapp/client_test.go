package ghapp_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/infra/ghapp"
)

func TestNew(t *testing.T) {
	t.Run("create new GitHub App client with valid inputs", func(t *testing.T) {
		_, err := ghapp.New(types.GitHubAppID(12345), types.GitHubAppPrivateKey("test-key"))
		gt.NoError(t, err)
	})

	t.Run("create with empty private key fails", func(t *testing.T) {
		client, err := ghapp.New(types.GitHubAppID(12345), types.GitHubAppPrivateKey(""))
		gt.Error(t, err)
		gt.V(t, client).Equal(nil)
	})

	t.Run("create with zero app ID fails", func(t *testing.T) {
		client, err := ghapp.New(types.GitHubAppID(0), types.GitHubAppPrivateKey("test-key"))
		gt.Error(t, err)
		gt.V(t, client).Equal(nil)
	})

	t.Run("HTTPClient returns error with invalid key", func(t *testing.T) {
		client := gt.R1(ghapp.New(types.GitHubAppID(12345), types.GitHubAppPrivateKey("invalid-key"))).NoError(t)

		httpClient, err := client.HTTPClient(types.GitHubAppInstallID(67890))
		gt.Error(t, err)
		gt.V(t, httpClient).Equal(nil)
	})
}

// rewriteTransport sends every request to the test server instead of api.github.com.
type rewriteTransport struct {
	target string
}

func (x *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Scheme = "http"
	r.URL.Host = strings.TrimPrefix(x.target, "http://")
	return http.DefaultTransport.RoundTrip(r)
}

func TestInstallationToken(t *testing.T) {
	key := gt.R1(rsa.GenerateKey(rand.Reader, 2048)).NoError(t)
	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	var calledPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calledPath = r.URL.Path
		gt.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		w.WriteHeader(http.StatusCreated)
		gt.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"token":      "ghs_test_token",
			"expires_at": time.Now().Add(time.Hour).Format(time.RFC3339),
		}))
	}))
	defer srv.Close()

	client := gt.R1(ghapp.New(
		types.GitHubAppID(12345),
		types.GitHubAppPrivateKey(keyPEM),
		ghapp.WithTransport(&rewriteTransport{target: srv.URL}),
	)).NoError(t)

	token := gt.R1(client.InstallationToken(context.Background(), types.GitHubAppInstallID(67890))).NoError(t)
	gt.V(t, token).Equal("ghs_test_token")
	gt.V(t, calledPath).Equal("/app/installations/67890/access_tokens")
}

func TestInstallationToken_Integration(t *testing.T) {
	appIDStr := os.Getenv("TEST_GITHUB_APP_ID")
	privateKey := os.Getenv("TEST_GITHUB_PRIVATE_KEY")
	installIDStr := os.Getenv("TEST_GITHUB_INSTALLATION_ID")

	if appIDStr == "" || privateKey == "" || installIDStr == "" {
		t.Skip("TEST_GITHUB_APP_ID, TEST_GITHUB_PRIVATE_KEY, and TEST_GITHUB_INSTALLATION_ID must be set")
	}

	appID := gt.R1(strconv.ParseInt(appIDStr, 10, 64)).NoError(t)
	installID := gt.R1(strconv.ParseInt(installIDStr, 10, 64)).NoError(t)

	client := gt.R1(ghapp.New(types.GitHubAppID(appID), types.GitHubAppPrivateKey(privateKey))).NoError(t)

	token := gt.R1(client.InstallationToken(context.Background(), types.GitHubAppInstallID(installID))).NoError(t)
	gt.V(t, token).NotEqual("")
}

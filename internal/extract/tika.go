package extract

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/go-tika/tika"
	"github.com/rs/zerolog/log"
)

// TikaExtractor extracts text from binary document formats (pdf, docx, doc)
// through an Apache Tika server.
type TikaExtractor struct {
	serverURL  string
	httpClient *http.Client
}

func NewTikaExtractor(serverURL string, timeout time.Duration) *TikaExtractor {
	if serverURL == "" {
		serverURL = "http://localhost:9998"
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &TikaExtractor{
		serverURL:  serverURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (e *TikaExtractor) Extract(ctx context.Context, name string, data []byte) (string, error) {
	text, err := retry.DoWithData(func() (string, error) {
		return e.extract(ctx, data)
	},
		retry.Attempts(3),
		retry.Delay(1*time.Second),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().
				Err(err).
				Uint("retry_number", n).
				Str("file", name).
				Msg("retrying text extraction")
		}),
	)
	return text, err
}

func (e *TikaExtractor) extract(ctx context.Context, data []byte) (string, error) {
	client := tika.NewClient(e.httpClient, e.serverURL)

	hdr := http.Header{}
	hdr.Set("Accept", "text/plain")

	parsed, err := client.ParseWithHeader(ctx, bytes.NewReader(data), hdr)
	if err != nil {
		return "", err
	}
	parsed = strings.TrimSpace(parsed)
	if parsed == "" {
		return "", errors.New("document contains no text")
	}
	return parsed, nil
}

package services

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/x/httpx"
)

const (
	// Default value of ping timeout
	defaultPingRemoteServiceTimeout = time.Second * 3
	statusOK                        = "ok"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

type ServiceHealthStatus struct {
	// Status contains "ok" for a healthy service.
	Status string `json:"result,omitempty"`
}

// PingRemoteService asks healthURL whether the service is alive or ready.
// Failed checks come back as httpx.ErrorAnsw.
func PingRemoteService(ctx context.Context, healthURL string) (*ServiceHealthStatus, error) {
	client := &http.Client{
		Timeout: defaultPingRemoteServiceTimeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}

	response, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer response.Body.Close()

	contents, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	if response.StatusCode != http.StatusOK {
		answ := httpx.ErrorAnsw{}
		if err := json.Unmarshal(contents, &answ); err != nil || answ.Body.Code == "" {
			return nil, errors.Wrapf(ErrUnexpectedStatus, "status %d", response.StatusCode)
		}
		return nil, answ
	}

	jData := &ServiceHealthStatus{}
	if len(contents) == 0 {
		jData.Status = statusOK
		return jData, nil
	}

	if err := json.Unmarshal(contents, jData); err != nil {
		return nil, errors.Wrap(err, "unmarshal answer")
	}

	return jData, nil
}

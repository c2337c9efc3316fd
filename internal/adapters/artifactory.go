package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"jfrog-cleaner/internal/ports"
	"jfrog-cleaner/internal/shared"
	"jfrog-cleaner/internal/types"
)

const defaultArtifactoryTimeout = 30 * time.Second
const manifestSuffix = "/manifest.json"

// ArtifactoryAdapter talks to the Artifactory Docker and storage REST APIs.
type ArtifactoryAdapter struct {
	Endpoint string
	Username string
	Password string
	Timeout  time.Duration
	client   *http.Client
}

func NewArtifactoryAdapter(cfg types.RegistryConfig) ArtifactoryAdapter {
	timeout := normalizeArtifactoryTimeout(cfg.TimeoutSec)
	return ArtifactoryAdapter{
		Endpoint: strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		Username: cfg.Username,
		Password: cfg.Password,
		Timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
	}
}

type catalogResponse struct {
	Repositories []string `json:"repositories"`
}

type storageListResponse struct {
	Files []storageFile `json:"files"`
}

type storageFile struct {
	URI          string `json:"uri"`
	LastModified string `json:"lastModified"`
	Folder       bool   `json:"folder"`
}

func (a ArtifactoryAdapter) ListImages(ctx context.Context, repository string) ([]string, error) {
	if err := a.validate(repository); err != nil {
		return nil, err
	}
	listURL := fmt.Sprintf("%s/api/docker/%s/v2/_catalog", a.Endpoint, shared.EscapePath(repository))
	body, err := a.get(ctx, listURL, "artifactory list images failed")
	if err != nil {
		return nil, err
	}
	var payload catalogResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse artifactory catalog").
			WithCause(err)
	}
	if payload.Repositories == nil {
		return []string{}, nil
	}
	return payload.Repositories, nil
}

func (a ArtifactoryAdapter) ListTags(ctx context.Context, repository string, image string) ([]types.Tag, error) {
	if err := a.validate(repository); err != nil {
		return nil, err
	}
	if strings.TrimSpace(image) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("image name is empty")
	}
	listURL := fmt.Sprintf("%s/api/storage/%s/%s?list&deep=1",
		a.Endpoint, shared.EscapePath(repository), shared.EscapePath(image))
	body, err := a.get(ctx, listURL, "artifactory list tags failed")
	if err != nil {
		return nil, err
	}
	return decodeStorageList(image, body)
}

func (a ArtifactoryAdapter) DeleteTag(ctx context.Context, repository string, tagPath string) error {
	if err := a.validate(repository); err != nil {
		return err
	}
	if strings.Trim(strings.TrimSpace(tagPath), "/") == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("tag path is empty")
	}
	deleteURL := fmt.Sprintf("%s/%s/%s", a.Endpoint, shared.EscapePath(repository), shared.EscapePath(tagPath))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, deleteURL, nil)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create artifactory delete request").
			WithCause(err)
	}
	a.applyBasicAuth(req)
	resp, err := a.httpClient().Do(req)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("artifactory delete tag failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return statusError(resp.StatusCode, "artifactory delete tag failed",
			shared.HTTPStatusErrorWithBody(resp.StatusCode, deleteURL, strings.TrimSpace(string(body))))
	}
	return nil
}

func (a ArtifactoryAdapter) get(ctx context.Context, target string, failure string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create artifactory request").
			WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	a.applyBasicAuth(req)
	resp, err := a.httpClient().Do(req)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(failure).
			WithCause(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, failure,
			shared.HTTPStatusErrorWithBody(resp.StatusCode, target, strings.TrimSpace(string(body))))
	}
	return body, nil
}

func (a ArtifactoryAdapter) validate(repository string) error {
	if a.Endpoint == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("artifactory endpoint is empty")
	}
	if strings.TrimSpace(repository) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repository name is empty")
	}
	return nil
}

func (a ArtifactoryAdapter) applyBasicAuth(req *http.Request) {
	if a.Username == "" && a.Password == "" {
		return
	}
	req.SetBasicAuth(a.Username, a.Password)
}

func (a ArtifactoryAdapter) httpClient() *http.Client {
	if a.client != nil {
		return a.client
	}
	return &http.Client{Timeout: normalizeArtifactoryTimeout(int(a.Timeout / time.Second))}
}

// decodeStorageList turns a deep storage listing of an image folder into
// tags. Only manifests directly below the image folder count; deeper
// manifests belong to nested images.
func decodeStorageList(image string, body []byte) ([]types.Tag, error) {
	var payload storageListResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse artifactory storage listing").
			WithCause(err)
	}
	imagePath := strings.Trim(image, "/")
	seen := map[string]struct{}{}
	tags := []types.Tag{}
	for _, file := range payload.Files {
		if file.Folder || !strings.HasSuffix(file.URI, manifestSuffix) {
			continue
		}
		tag := strings.Trim(strings.TrimSuffix(file.URI, manifestSuffix), "/")
		if tag == "" || strings.Contains(tag, "/") {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, types.Tag{
			Identifier: tag,
			Path:       imagePath + "/" + tag,
			Modified:   strings.TrimSpace(file.LastModified),
		})
	}
	return tags, nil
}

func statusError(status int, msg string, cause error) error {
	switch status {
	case http.StatusNotFound:
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(msg).
			WithCause(cause)
	case http.StatusUnauthorized, http.StatusForbidden:
		return errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg(msg).
			WithCause(cause)
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(msg).
			WithCause(cause)
	}
}

func normalizeArtifactoryTimeout(value int) time.Duration {
	timeout := time.Duration(value) * time.Second
	if timeout <= 0 {
		return defaultArtifactoryTimeout
	}
	return timeout
}

var _ ports.RegistryPort = ArtifactoryAdapter{}

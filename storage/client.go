// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/parflow/pfperf/pfdoc"
	"golang.org/x/net/context"
	"golang.org/x/net/context/ctxhttp"
)

// A Client issues queries to a benchmark document storage server.
// It implements Source.
type Client struct {
	// BaseURL is the base URL of the storage server.
	BaseURL string
	// HTTPClient is the HTTP client for sending requests. If nil,
	// http.DefaultClient will be used.
	HTTPClient *http.Client
}

// httpClient returns the http.Client to use for requests.
func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// Wire forms of the server endpoints.
type (
	HostnamesResponse struct {
		Hostnames []string `json:"hostnames"`
	}
	DomainsRequest struct {
		Hostname string `json:"hostname"`
		Partial  bool   `json:"wilcard,omitempty"`
	}
	DomainsResponse struct {
		Domains []string `json:"domains"`
	}
	RunsRequest struct {
		Params Selection `json:"docParams"`
	}
	DocumentRequest struct {
		ID string `json:"docID"`
	}
	// ErrorMarker is returned by /getdocumentbyid in place of a
	// document when the id is not a valid ObjectID.
	ErrorMarker struct {
		Valid bool `json:"valid"`
	}
)

// Hostnames implements Source.
func (c *Client) Hostnames(ctx context.Context) ([]string, error) {
	resp, err := ctxhttp.Get(ctx, c.httpClient(), c.BaseURL+"/gethostnames")
	if err != nil {
		return nil, err
	}
	var hr HostnamesResponse
	if err := c.decode(resp, &hr); err != nil {
		return nil, err
	}
	return hr.Hostnames, nil
}

// Domains implements Source.
func (c *Client) Domains(ctx context.Context, host string, partial bool) ([]string, error) {
	resp, err := c.post(ctx, "/getdomainsbyhostname", DomainsRequest{Hostname: host, Partial: partial})
	if err != nil {
		return nil, err
	}
	var dr DomainsResponse
	if err := c.decode(resp, &dr); err != nil {
		return nil, err
	}
	return dr.Domains, nil
}

// Runs implements Source.
func (c *Client) Runs(ctx context.Context, sel Selection) (pfdoc.Groups, error) {
	resp, err := c.post(ctx, "/getdocumentsbyhostnamedomain", RunsRequest{Params: sel})
	if err != nil {
		return nil, err
	}
	var gs pfdoc.Groups
	if err := c.decode(resp, &gs); err != nil {
		return nil, err
	}
	return gs, nil
}

// Document implements Source.
func (c *Client) Document(ctx context.Context, id string) (*pfdoc.Document, error) {
	resp, err := c.post(ctx, "/getdocumentbyid", DocumentRequest{ID: id})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var marker map[string]json.RawMessage
	if err := json.Unmarshal(data, &marker); err == nil {
		if _, ok := marker["valid"]; ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}
	return pfdoc.ParseDocument(data)
}

// UploadStatus is the response to an /upload POST.
type UploadStatus struct {
	// UploadID is the upload ID assigned to the upload.
	UploadID string `json:"uploadid"`
	// FileIDs is the list of file IDs assigned to the files in the upload.
	FileIDs []string `json:"fileids"`
	// DocumentIDs lists the ids of the stored documents.
	DocumentIDs []string `json:"docids"`
	// ViewURL is a server-supplied URL to view the first document.
	ViewURL string `json:"viewurl,omitempty"`
}

// Upload sends the named files to the server as one upload. Each file
// holds one extended JSON document or an array of them.
func (c *Client) Upload(ctx context.Context, files ...string) (*UploadStatus, error) {
	pr, pw := io.Pipe()
	mpw := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()
		for _, name := range files {
			if err := writeOneFile(mpw, name); err != nil {
				// Closing the pipe with an error fails the request.
				pw.CloseWithError(err)
				return
			}
		}
		pw.CloseWithError(mpw.Close())
	}()

	resp, err := ctxhttp.Post(ctx, c.httpClient(), c.BaseURL+"/upload", mpw.FormDataContentType(), pr)
	if err != nil {
		return nil, err
	}
	var status UploadStatus
	if err := c.decode(resp, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// writeOneFile reads name and writes it to mpw.
func writeOneFile(mpw *multipart.Writer, name string) error {
	data, err := ioutil.ReadFile(name)
	if err != nil {
		return err
	}
	w, err := mpw.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return ctxhttp.Post(ctx, c.httpClient(), c.BaseURL+path, "application/json", bytes.NewReader(data))
}

// decode decodes a JSON response body into v and closes it.
func (c *Client) decode(resp *http.Response, v interface{}) error {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func statusError(resp *http.Response) error {
	body, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("%s: %s", resp.Status, bytes.TrimSpace(body))
}

package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchdash/internal/config"
)

// fakeGetter serves objects keyed by "bucket/key".
type fakeGetter struct {
	objects map[string]string
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

// objectTransport answers path-style GET requests from an in-memory map.
type objectTransport struct {
	objects map[string]string
	paths   []string
}

func (o *objectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	path := strings.TrimPrefix(req.URL.Path, "/")
	o.paths = append(o.paths, path)
	body, ok := o.objects[path]
	if req.Method != http.MethodGet || !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("<Error><Code>NoSuchKey</Code></Error>")),
			Header:     http.Header{"Content-Type": {"application/xml"}},
			Request:    req,
		}, nil
	}
	return &http.Response{
		StatusCode:    http.StatusOK,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Header: http.Header{
			"Content-Type":   {"text/csv"},
			"Content-Length": {fmt.Sprintf("%d", len(body))},
		},
		Request: req,
	}, nil
}

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{"s3://launch-data/spacex_launch_dash.csv", "launch-data", "spacex_launch_dash.csv", false},
		{"s3://launch-data/nested/dir/file.xlsx", "launch-data", "nested/dir/file.xlsx", false},
		{"s3://launch-data/", "", "", true},
		{"s3:///key.csv", "", "", true},
		{"gs://bucket/key.csv", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := ParseS3URI(tt.uri)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedSource)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestLoadS3_FetchError(t *testing.T) {
	_, err := LoadS3(context.Background(), &fakeGetter{}, "s3://bucket/missing.csv", FormatAuto, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch s3://bucket/missing.csv")
}

func TestNewS3Client_PathStyleEndpoint(t *testing.T) {
	transport := &objectTransport{objects: map[string]string{
		"launch-data/spacex.csv": "Launch Site,class,Payload Mass (kg),Booster Version Category\nA,1,500,v1\nB,0,700,v2\n",
	}}

	client, err := NewS3Client(context.Background(), config.S3Config{
		Region:          "us-east-1",
		Endpoint:        "https://minio.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: transport}
	})
	require.NoError(t, err)

	ds, err := LoadS3(context.Background(), client, "s3://launch-data/spacex.csv", FormatAuto, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ds.Sites())
	assert.Contains(t, transport.paths, "launch-data/spacex.csv")
}

package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"coqueta/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 3

// File is one payload taken from a multipart form
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Result lists the stored URLs in input order, plus the same URLs split
// by resource type.
type Result struct {
	URLs   []string `json:"urls"`
	Images []string `json:"images"`
	Videos []string `json:"videos"`
}

// Relay forwards files to a MediaHost under a fixed folder
type Relay struct {
	host        MediaHost
	folder      string
	concurrency int
	logger      *zap.Logger
}

func NewRelay(host MediaHost, folder string, logger *zap.Logger) *Relay {
	return &Relay{host: host, folder: folder, concurrency: defaultConcurrency, logger: logger}
}

// DataURI encodes content as data:<mime>;base64,<payload>
func DataURI(mime string, content []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(content))
}

// Upload stores every file and returns their URLs. The first host failure
// cancels the uploads still pending; files already stored stay stored.
func (r *Relay) Upload(ctx context.Context, files []File) (*Result, error) {
	if len(files) == 0 {
		return nil, &domain.ValidationError{Field: "file", Err: domain.ErrNoFiles}
	}

	assets := make([]Asset, len(files))
	for i, f := range files {
		content, err := io.ReadAll(f.Body)
		if err != nil {
			return nil, &domain.UploadError{Message: fmt.Sprintf("no se pudo leer %s", f.Name), Err: err}
		}
		assets[i] = Asset{
			DataURI:      DataURI(f.ContentType, content),
			Folder:       r.folder,
			ResourceType: ResourceTypeFor(f.ContentType),
			Filename:     f.Name,
		}
	}

	urls := make([]string, len(assets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, asset := range assets {
		g.Go(func() error {
			res, err := r.host.Upload(gctx, asset)
			if err != nil {
				r.logger.Error("Media upload failed", zap.String("file", asset.Filename), zap.Error(err))
				return err
			}
			urls[i] = res.SecureURL
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var ue *domain.UploadError
		if errors.As(err, &ue) {
			return nil, err
		}
		return nil, &domain.UploadError{Message: err.Error(), Err: err}
	}

	images, videos := SplitMediaURLs(urls)
	r.logger.Info("Media uploaded", zap.Int("files", len(urls)), zap.String("folder", r.folder))
	return &Result{URLs: urls, Images: images, Videos: videos}, nil
}

package wikisdk

import (
	"context"

	"github.com/imroc/req/v3"
)

const (
	v1ImportPreview = "/api/v1/import/preview"
	v1ImportStart   = "/api/v1/import/start"
)

// ImportAPI talks to the CSV preview service and the import job submission
// service.
type ImportAPI struct {
	client *req.Client
}

func newImportAPI(client *req.Client) *ImportAPI {
	return &ImportAPI{client: client}
}

// ParsePreview sends the raw file content for parsing and validation.
func (a *ImportAPI) ParsePreview(ctx context.Context, params *ParsePreviewRequest) (resp *ParsePreviewResponse, err error) {
	res, err := a.client.R().
		SetContext(ctx).
		SetBody(params).
		SetSuccessResult(&resp).
		Post(v1ImportPreview)

	if err := handleAPIError(res, err, "parse preview"); err != nil {
		return nil, err
	}

	return resp, nil
}

// StartImportJob submits the full original file content for import.
func (a *ImportAPI) StartImportJob(ctx context.Context, params *StartImportRequest) (resp *StartImportResponse, err error) {
	res, err := a.client.R().
		SetContext(ctx).
		SetBody(params).
		SetSuccessResult(&resp).
		Post(v1ImportStart)

	if err := handleAPIError(res, err, "start import"); err != nil {
		return nil, err
	}

	return resp, nil
}

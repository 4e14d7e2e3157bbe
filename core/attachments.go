package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	goerrors "github.com/goliatone/go-errors"
)

var errUploadAbandoned = errors.New("qonto: attachment upload abandoned")

type attachmentsAPI struct {
	rt *runtime
}

func (a *attachmentsAPI) GetAttachment(ctx context.Context, id string) (Attachment, error) {
	ctx = normalizeContext(ctx)
	fields := map[string]any{"attachment_id": id}
	return observe(ctx, a.rt, "qonto.attachments.get", fields, func() (Attachment, error) {
		if err := requireID("attachment id", id); err != nil {
			return Attachment{}, err
		}
		resp, err := a.rt.send(ctx, apiCall{
			operation: "attachments.get",
			method:    http.MethodGet,
			path:      "attachments/" + url.PathEscape(id),
		})
		if err != nil {
			return Attachment{}, err
		}
		envelope, err := decodeJSON[apiAttachmentEnvelope](resp.Body, "attachment")
		if err != nil {
			return Attachment{}, err
		}
		if envelope.Attachment == nil {
			return Attachment{}, conversionError("attachment", "missing")
		}
		return convertAttachment(*envelope.Attachment)
	})
}

func (a *attachmentsAPI) GetAttachmentList(ctx context.Context, transactionInternalID string) ([]Attachment, error) {
	ctx = normalizeContext(ctx)
	fields := map[string]any{"transaction_internal_id": transactionInternalID}
	return observe(ctx, a.rt, "qonto.attachments.list", fields, func() ([]Attachment, error) {
		if err := requireID("transaction internal id", transactionInternalID); err != nil {
			return nil, err
		}
		resp, err := a.rt.send(ctx, apiCall{
			operation: "attachments.list",
			method:    http.MethodGet,
			path:      transactionAttachmentsPath(transactionInternalID),
		})
		if err != nil {
			return nil, err
		}
		envelope, err := decodeJSON[apiAttachmentListEnvelope](resp.Body, "attachment list")
		if err != nil {
			return nil, err
		}
		return convertAttachments(envelope.Attachments)
	})
}

// AddAttachment uploads input as the single "file" part of a multipart body.
// input is read to the end but never closed; its lifecycle stays with the
// caller.
func (a *attachmentsAPI) AddAttachment(
	ctx context.Context,
	transactionInternalID string,
	attachmentType AttachmentType,
	input io.Reader,
) error {
	ctx = normalizeContext(ctx)
	fields := map[string]any{
		"transaction_internal_id": transactionInternalID,
		"content_type":            attachmentType.ContentType(),
	}
	_, err := observe(ctx, a.rt, "qonto.attachments.add", fields, func() (struct{}, error) {
		if err := requireID("transaction internal id", transactionInternalID); err != nil {
			return struct{}{}, err
		}
		if !attachmentType.Valid() {
			return struct{}{}, badInputError(fmt.Sprintf("qonto: unsupported attachment type %d", attachmentType))
		}
		if input == nil {
			return struct{}{}, badInputError("qonto: attachment input is required")
		}
		if err := a.rt.ensureOpen("attachments.add"); err != nil {
			return struct{}{}, err
		}

		bodyReader, bodyWriter := io.Pipe()
		form := multipart.NewWriter(bodyWriter)
		written := make(chan error, 1)
		go func() {
			err := writeAttachmentPart(form, attachmentType, input)
			bodyWriter.CloseWithError(err)
			written <- err
		}()

		_, sendErr := a.rt.send(ctx, apiCall{
			operation:   "attachments.add",
			method:      http.MethodPost,
			path:        transactionAttachmentsPath(transactionInternalID),
			bodyReader:  bodyReader,
			contentType: form.FormDataContentType(),
		})
		bodyReader.CloseWithError(errUploadAbandoned)
		writeErr := <-written
		if sendErr != nil {
			return struct{}{}, sendErr
		}
		if writeErr != nil && !errors.Is(writeErr, errUploadAbandoned) {
			return struct{}{}, goerrors.Wrap(writeErr, goerrors.CategoryBadInput, "qonto: read attachment input").
				WithTextCode(ErrorBadInput)
		}
		return struct{}{}, nil
	})
	return err
}

func writeAttachmentPart(form *multipart.Writer, attachmentType AttachmentType, input io.Reader) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, attachmentType.FileName()))
	header.Set("Content-Type", attachmentType.ContentType())
	part, err := form.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, input); err != nil {
		return err
	}
	return form.Close()
}

func (a *attachmentsAPI) RemoveAttachment(ctx context.Context, transactionInternalID string, attachmentID string) error {
	ctx = normalizeContext(ctx)
	fields := map[string]any{
		"transaction_internal_id": transactionInternalID,
		"attachment_id":           attachmentID,
	}
	_, err := observe(ctx, a.rt, "qonto.attachments.remove", fields, func() (struct{}, error) {
		if err := requireID("transaction internal id", transactionInternalID); err != nil {
			return struct{}{}, err
		}
		if err := requireID("attachment id", attachmentID); err != nil {
			return struct{}{}, err
		}
		_, err := a.rt.send(ctx, apiCall{
			operation: "attachments.remove",
			method:    http.MethodDelete,
			path:      transactionAttachmentsPath(transactionInternalID) + "/" + url.PathEscape(attachmentID),
		})
		return struct{}{}, err
	})
	return err
}

func (a *attachmentsAPI) RemoveAllAttachments(ctx context.Context, transactionInternalID string) error {
	ctx = normalizeContext(ctx)
	fields := map[string]any{"transaction_internal_id": transactionInternalID}
	_, err := observe(ctx, a.rt, "qonto.attachments.remove_all", fields, func() (struct{}, error) {
		if err := requireID("transaction internal id", transactionInternalID); err != nil {
			return struct{}{}, err
		}
		_, err := a.rt.send(ctx, apiCall{
			operation: "attachments.remove_all",
			method:    http.MethodDelete,
			path:      transactionAttachmentsPath(transactionInternalID),
		})
		return struct{}{}, err
	})
	return err
}

func transactionAttachmentsPath(transactionInternalID string) string {
	return "transactions/" + url.PathEscape(transactionInternalID) + "/attachments"
}

var _ Attachments = (*attachmentsAPI)(nil)

package core

import "time"

// Attachment URLs are presigned and expire 30 minutes after issuance; fetch
// the attachment again to obtain a fresh one.
type Attachment struct {
	ID          string
	FileName    string
	CreatedDate time.Time
	Size        int64
	ContentType string
	URL         string
	Probative   *ProbativeAttachment
}

type ProbativeAttachmentStatus int

const (
	ProbativeAttachmentStatusPending ProbativeAttachmentStatus = iota + 1
	ProbativeAttachmentStatusAvailable
	ProbativeAttachmentStatusUnavailable
	ProbativeAttachmentStatusCorrupted
)

// ProbativeAttachment carries File only when Status is available.
type ProbativeAttachment struct {
	Status ProbativeAttachmentStatus
	File   *ProbativeFile
}

type ProbativeFile struct {
	FileName    string
	Size        int64
	ContentType string
	URL         string
}

// AttachmentType is the closed set of uploadable file kinds.
type AttachmentType int

const (
	AttachmentTypePNG AttachmentType = iota + 1
	AttachmentTypeJPEG
	AttachmentTypePDF
)

type attachmentFormat struct {
	fileName    string
	contentType string
}

var attachmentFormats = map[AttachmentType]attachmentFormat{
	AttachmentTypePNG:  {fileName: "file.png", contentType: "image/png"},
	AttachmentTypeJPEG: {fileName: "file.jpg", contentType: "image/jpeg"},
	AttachmentTypePDF:  {fileName: "file.pdf", contentType: "application/pdf"},
}

func (t AttachmentType) ContentType() string {
	return attachmentFormats[t].contentType
}

func (t AttachmentType) FileName() string {
	return attachmentFormats[t].fileName
}

func (t AttachmentType) Valid() bool {
	_, ok := attachmentFormats[t]
	return ok
}

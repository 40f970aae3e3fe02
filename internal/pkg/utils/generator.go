package utils

import (
	"fmt"
	"mindhub-service/internal/pkg/constvars"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

func GenerateID() string {
	return uuid.NewString()
}

// GenerateAttachmentObjectName builds the MinIO key for a form attachment,
// keeping the original extension.
func GenerateAttachmentObjectName(templateID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	stamp := time.Now().UTC().Format("20060102T150405")
	return fmt.Sprintf(constvars.MinioFormAttachmentPathFormat, templateID, stamp+"_"+uuid.NewString(), ext)
}

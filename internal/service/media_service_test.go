package service

import (
	"testing"

	"github.com/prasadk19/postdeck/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMediaTypeForMIME(t *testing.T) {
	assert.Equal(t, models.MediaTypeImage, MediaTypeForMIME("image/png"))
	assert.Equal(t, models.MediaTypeImage, MediaTypeForMIME("image/webp"))
	assert.Equal(t, models.MediaTypeVideo, MediaTypeForMIME("video/mp4"))
	assert.Equal(t, models.MediaTypePDF, MediaTypeForMIME("application/pdf"))
	assert.Equal(t, models.MediaTypeDocument, MediaTypeForMIME("application/msword"))
	assert.Equal(t, models.MediaTypeDocument, MediaTypeForMIME(""))
}

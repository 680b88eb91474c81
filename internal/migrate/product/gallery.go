package product

import (
	"StoreImport/internal/phpserial"
	"StoreImport/internal/source"
	"strings"

	"github.com/pkg/errors"
)

type AttachmentResolver interface {
	ResolveAttachmentURL(id int64) (string, bool, error)
}

type GalleryResolver struct {
	attachments AttachmentResolver
}

func NewGalleryResolver(attachments AttachmentResolver) *GalleryResolver {
	return &GalleryResolver{attachments: attachments}
}

// Resolve maps attachment ids to URLs in order. Ids that do not resolve are left
// out, a repeated id keeps its first position.
func (g *GalleryResolver) Resolve(ids []int64) (phpserial.Array, error) {
	var gallery phpserial.Array
	seen := make(map[int64]bool)
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		url, ok, err := g.attachments.ResolveAttachmentURL(id)
		if err != nil {
			return nil, errors.Wrapf(err, "failed resolve attachment %d", id)
		}
		if !ok || url == "" {
			continue
		}
		seen[id] = true
		gallery = append(gallery, phpserial.Pair{Key: id, Value: url})
	}
	return gallery, nil
}

// ParseGalleryIDs reads gallery ids from field values that are already flat.
func ParseGalleryIDs(values []string) []int64 {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		if id := source.ToInt(v); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// ParseGalleryList reads a comma separated id list, dropping empty and non-numeric entries.
func ParseGalleryList(s string) []int64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return ParseGalleryIDs(strings.Split(s, ","))
}

package duel

import (
	"sort"
	"strconv"
	"strings"
)

// DiscoveryKey derives a stable, order-independent fingerprint of a
// fusion attempt: the sorted union of the materials' catalog tags plus
// the material count. It records "this materials-profile has been fused
// before" for collection bookkeeping, independent of which exact cards
// were used. It plays no part in resolving the fusion itself.
func DiscoveryKey(cat CatalogView, materialTemplateIDs []int) string {
	tagSet := make(map[string]struct{})
	for _, templateID := range materialTemplateIDs {
		card := mustLookup(cat, templateID)
		for _, tag := range card.Tags {
			tagSet[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(tagSet))
	for tag := range tagSet {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return strings.Join(tags, ",") + "#" + strconv.Itoa(len(materialTemplateIDs))
}

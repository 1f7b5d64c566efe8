package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	EntryKeyPrefix     = "entry:%d"
	EntrySlugKeyPrefix = "entry:slug:%s"
	EntryListVersion   = "entries:list:version"
)

const (
	UserTTL      = 5 * time.Minute
	EntryTTL     = 10 * time.Minute
	EntryListTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func EntryKey(entryID uint) string {
	return fmt.Sprintf(EntryKeyPrefix, entryID)
}

func EntrySlugKey(slug string) string {
	return fmt.Sprintf(EntrySlugKeyPrefix, slug)
}

// EntryListKey namespaces list results under a version counter so a whole
// generation of pages can be dropped with one INCR instead of a SCAN.
func EntryListKey(ctx context.Context, search, category, sort string, limit, offset int) string {
	version := int64(0)
	if client != nil {
		if v, err := client.Get(ctx, EntryListVersion).Int64(); err == nil {
			version = v
		}
	}
	return fmt.Sprintf("entries:list:v%d:%s:%s:%s:%d:%d", version, search, category, sort, limit, offset)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateEntry(ctx context.Context, entryID uint, slug string) {
	Invalidate(ctx, EntryKey(entryID))
	if slug != "" {
		Invalidate(ctx, EntrySlugKey(slug))
	}
	InvalidateEntryLists(ctx)
}

func InvalidateEntryLists(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, EntryListVersion)
	}
}

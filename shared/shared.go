package shared

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"rolloff/shared/cache"
	"rolloff/shared/constant"
	"rolloff/shared/dto"
	"rolloff/shared/timezone"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

// ConvertStringToBool parses an optional boolean query value. Empty or malformed input gives nil,
// which callers treat as "not filtered".
func ConvertStringToBool(value string) *bool {
	value = strings.TrimSpace(value)
	if value == constant.Empty {
		return nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Str("value", value).Msg("ignoring malformed boolean parameter")

		return nil
	}

	return &parsed
}

func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

// TransformFields builds the column map for a partial update from a request struct. Only fields
// with a db tag and a non-zero value are kept, pointers are dereferenced, and the modification
// metadata is stamped with username.
func TransformFields(data any, username string) map[string]any {
	val := reflect.Indirect(reflect.ValueOf(data))
	fields := make(map[string]any)

	if val.Kind() == reflect.Struct {
		typ := val.Type()

		for i := range val.NumField() {
			column := typ.Field(i).Tag.Get("db")
			if column == constant.Empty || column == "-" {
				continue
			}

			field := val.Field(i)
			if field.IsZero() {
				continue
			}

			if field.Kind() == reflect.Pointer {
				field = field.Elem()
			}

			fields[column] = field.Interface()
		}
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = username

	return fields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: fieldID, Value: id, Operator: dto.FilterOperatorEq, Table: table},
		},
	}
}

// BuildCacheKey joins the prefix and every non-empty part with ":".
func BuildCacheKey(prefix string, parts ...string) string {
	keys := []string{prefix}

	for _, part := range parts {
		if part == constant.Empty {
			continue
		}

		keys = append(keys, part)
	}

	return strings.Join(keys, cacheKeySeparator)
}

// BuildCacheKeyWithQuery builds a deterministic key from the query params and filter arguments.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	parts := []string{
		fmt.Sprintf("page=%d", params.Page),
		fmt.Sprintf("limit=%d", params.Limit),
		"sort_by=" + params.SortBy,
		"sort_dir=" + params.SortDir,
	}

	_, args := filter.GetWhereClause()

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", name, args[name]))
	}

	return BuildCacheKey(prefix, parts...)
}

// InvalidateCaches removes every key stored under prefix.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

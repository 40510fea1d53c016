package pokeapi

import (
	"context"
	"fmt"
)

// Walk streams every entry of a listing starting at offset, one page at a time,
// calling fn with the absolute index of each entry.
//
// An error on the first page is returned since it means the source is unreachable.
// A failed later page is reported to onPageError and skipped. An error from fn
// stops the walk and is returned.
func Walk(ctx context.Context, src Source, resource string, pageSize, offset int,
	fn func(index int, ref NamedResource) error,
	onPageError func(offset int, err error),
) error {
	if pageSize <= 0 {
		pageSize = 100
	}

	first, err := src.ListPage(ctx, resource, pageSize, offset)
	if err != nil {
		return fmt.Errorf("list %s: %w", resource, err)
	}
	total := first.Count
	page := first

	for {
		for i, ref := range page.Results {
			if err := fn(offset+i, ref); err != nil {
				return err
			}
		}

		for {
			offset += pageSize
			if offset >= total {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			page, err = src.ListPage(ctx, resource, pageSize, offset)
			if err == nil {
				break
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if onPageError != nil {
				onPageError(offset, err)
			}
		}
	}
}

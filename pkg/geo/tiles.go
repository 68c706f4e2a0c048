package geo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/carnetphoto/carnet/util"
)

const (
	// tileTimeout bounds a single tile download.
	tileTimeout = 20 * time.Second

	// tileFetchWorkers is how many tiles are downloaded at once.
	tileFetchWorkers = 4
)

// TileSource describes a slippy map tile server.
type TileSource struct {
	// Name keys the cache directory for this provider.
	Name string
	// URLTemplate carries {s}, {z}, {x} and {y} placeholders.
	URLTemplate string
	// Subdomains rotate into {s}.
	Subdomains []string
}

// OSMFrance is the OpenStreetMap France layer the maps are drawn on.
func OSMFrance() TileSource {
	return TileSource{
		Name:        "osmfr",
		URLTemplate: "https://{s}.tile.openstreetmap.fr/osmfr/{z}/{x}/{y}.png",
		Subdomains:  []string{"a", "b", "c"},
	}
}

func (s TileSource) url(t Tile) string {
	u := s.URLTemplate
	if len(s.Subdomains) > 0 {
		u = strings.Replace(u, "{s}", s.Subdomains[(t.X+t.Y)%len(s.Subdomains)], 1)
	}
	u = strings.Replace(u, "{z}", strconv.Itoa(t.Z), 1)
	u = strings.Replace(u, "{x}", strconv.Itoa(t.X), 1)
	u = strings.Replace(u, "{y}", strconv.Itoa(t.Y), 1)
	return u
}

// Basemap is a stitched background image cropped to the extent it covers.
type Basemap struct {
	Image  image.Image
	Extent BBox
	Zoom   int
	// Failed counts tiles that could not be fetched and were left blank.
	Failed int
	Total  int
}

// Fetcher downloads and stitches basemap tiles, going through the disk
// cache first.
type Fetcher struct {
	src   TileSource
	http  *http.Client
	cache *Cache
}

// NewFetcher builds a tile fetcher. cache may be nil to skip disk caching.
func NewFetcher(src TileSource, client *http.Client, cache *Cache) *Fetcher {
	return &Fetcher{src: src, http: withUserAgent(client), cache: cache}
}

// Fetch downloads every tile covering extent at zoom and stitches them into
// one image cropped to exactly the extent. Tiles that cannot be fetched stay
// blank instead of failing the map; only cancellation aborts.
func (f *Fetcher) Fetch(ctx context.Context, extent BBox, zoom int, progress func(done, total int)) (*Basemap, error) {
	rect := TilesCovering(extent, zoom)
	tiles := rect.Tiles()

	images := make([]image.Image, len(tiles))
	failed := util.NewSafeInt()
	done := util.NewSafeInt()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(tileFetchWorkers)
	for i, t := range tiles {
		i, t := i, t
		g.Go(func() error {
			img, err := f.fetchTile(gctx, t)
			if err != nil {
				failed.Increment()
			} else {
				images[i] = img
			}
			if progress != nil {
				progress(done.Increment(), len(tiles))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Blank spots show as white, like an empty plot background.
	mosaic := image.NewRGBA(image.Rect(0, 0, rect.Cols()*TileSize, rect.Rows()*TileSize))
	draw.Draw(mosaic, mosaic.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for i, t := range tiles {
		if images[i] == nil {
			continue
		}
		x0 := (t.X - rect.MinX) * TileSize
		y0 := (t.Y - rect.MinY) * TileSize
		draw.Draw(mosaic, image.Rect(x0, y0, x0+TileSize, y0+TileSize), images[i], image.Point{}, draw.Src)
	}

	origin := rect.Origin()
	mpp := MetersPerPixel(zoom)
	crop := image.Rect(
		int((extent.MinX-origin.X)/mpp),
		int((origin.Y-extent.MaxY)/mpp),
		int((extent.MaxX-origin.X)/mpp),
		int((origin.Y-extent.MinY)/mpp),
	).Intersect(mosaic.Bounds())

	return &Basemap{
		Image:  imaging.Crop(mosaic, crop),
		Extent: extent,
		Zoom:   zoom,
		Failed: failed.Value(),
		Total:  len(tiles),
	}, nil
}

func (f *Fetcher) fetchTile(ctx context.Context, t Tile) (image.Image, error) {
	if f.cache != nil {
		if data, ok := f.cache.GetTile(f.src.Name, t); ok {
			if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
				return img, nil
			}
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, tileTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, f.src.url(t), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("tile %d/%d/%d: status %s", t.Z, t.X, t.Y, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("tile %d/%d/%d: %w", t.Z, t.X, t.Y, err)
	}
	if f.cache != nil {
		f.cache.PutTile(f.src.Name, t, data)
	}
	return img, nil
}

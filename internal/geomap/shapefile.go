package geomap

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// AddShapefile reads an ESRI shapefile and adds it as a vector layer.
// Coordinates are used as-is and should be longitude/latitude.
func (m *Map) AddShapefile(path, name string, opts *VectorOptions) error {
	fc, err := ReadShapefile(path)
	if err != nil {
		return err
	}
	if name == "" {
		name = path
	}
	return m.AddGeoJSON(fc, name, opts)
}

// ReadShapefile converts every record of a shapefile, with all of its
// attribute fields, into a GeoJSON feature collection.
func ReadShapefile(path string) (*geojson.FeatureCollection, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile %s: %w", path, err)
	}
	defer d.Close()

	fields := d.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}

	fc := geojson.NewFeatureCollection()
	for {
		g, attrs, more := d.DecodeRowFields(names...)
		if !more {
			break
		}
		og, err := orbGeometry(g)
		if err != nil {
			return nil, fmt.Errorf("%s record %d: %w", path, len(fc.Features), err)
		}
		f := geojson.NewFeature(og)
		for k, v := range attrs {
			f.Properties[k] = v
		}
		fc.Append(f)
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("failed to decode shapefile %s: %w", path, err)
	}
	return fc, nil
}

func orbGeometry(g geom.Geom) (orb.Geometry, error) {
	switch t := g.(type) {
	case geom.Point:
		return orb.Point{t.X, t.Y}, nil
	case geom.MultiPoint:
		return orb.MultiPoint(orbPoints(t)), nil
	case geom.LineString:
		return orb.LineString(orbPoints(t)), nil
	case geom.MultiLineString:
		mls := make(orb.MultiLineString, len(t))
		for i, ls := range t {
			mls[i] = orb.LineString(orbPoints(ls))
		}
		return mls, nil
	case geom.Polygon:
		return orbPolygon(t), nil
	case geom.MultiPolygon:
		mp := make(orb.MultiPolygon, len(t))
		for i, p := range t {
			mp[i] = orbPolygon(p)
		}
		return mp, nil
	case nil:
		return nil, fmt.Errorf("empty geometry")
	default:
		return nil, fmt.Errorf("unsupported geometry type %T", g)
	}
}

func orbPoints(pts []geom.Point) []orb.Point {
	out := make([]orb.Point, len(pts))
	for i, p := range pts {
		out[i] = orb.Point{p.X, p.Y}
	}
	return out
}

func orbPolygon(p geom.Polygon) orb.Polygon {
	poly := make(orb.Polygon, len(p))
	for i, ring := range p {
		poly[i] = orb.Ring(orbPoints(ring))
	}
	return poly
}

package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// ProximityController answers "which users were close to each other in
// space and time" over the spatial schema variant. Requires the postgres
// dialect with PostGIS; other dialects get a 501.
type ProximityController struct {
	DB *gorm.DB
}

func NewProximityController(db *gorm.DB) *ProximityController {
	return &ProximityController{DB: db}
}

const proximitySQL = `
SELECT a.user_id       AS user_a,
       b.user_id       AS user_b,
       tp_a.datetime   AS datetime_a,
       tp_b.datetime   AS datetime_b,
       ST_AsBinary(tp_a.geom) AS geom
FROM track_points tp_a
JOIN activities a ON a.id = tp_a.activity_id
JOIN track_points tp_b ON tp_b.id <> tp_a.id
JOIN activities b ON b.id = tp_b.activity_id AND b.user_id > a.user_id
WHERE ABS(EXTRACT(EPOCH FROM tp_a.datetime - tp_b.datetime)) <= ?
  AND ST_DWithin(tp_a.geom::geography, tp_b.geom::geography, ?)
LIMIT ?
`

// Nearby returns encounters: pairs of trackpoints from different users
// within ?meters and ?seconds of each other. Each row carries the meeting
// position as GeoJSON.
func (pc *ProximityController) Nearby(c *gin.Context) {
	if pc.DB.Dialector.Name() != "postgres" {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Proximity queries require the PostGIS schema variant"})
		return
	}

	meters := queryFloat(c, "meters", 100)
	seconds := queryFloat(c, "seconds", 60)
	limit := queryInt(c, "limit", 100)

	var rows []struct {
		UserA     string
		UserB     string
		DatetimeA time.Time
		DatetimeB time.Time
		Geom      []byte
	}
	if err := pc.DB.Raw(proximitySQL, seconds, meters, limit).Scan(&rows).Error; err != nil {
		logrus.WithError(err).Error("Nearby: proximity query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Proximity query failed"})
		return
	}

	type encounter struct {
		UserA     string    `json:"user_a"`
		UserB     string    `json:"user_b"`
		DatetimeA time.Time `json:"datetime_a"`
		DatetimeB time.Time `json:"datetime_b"`
		Position  string    `json:"position"` // GeoJSON point
	}
	encounters := make([]encounter, 0, len(rows))
	for _, r := range rows {
		pos, err := convertWKBToGeoJSON(r.Geom)
		if err != nil {
			logrus.WithError(err).Warn("Nearby: undecodable geom, skipping row")
			continue
		}
		encounters = append(encounters, encounter{
			UserA:     r.UserA,
			UserB:     r.UserB,
			DatetimeA: r.DatetimeA,
			DatetimeB: r.DatetimeB,
			Position:  pos,
		})
	}

	c.JSON(http.StatusOK, encounters)
}

// convertWKBToGeoJSON converts WKB bytes into a GeoJSON string
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func queryFloat(c *gin.Context, key string, def float64) float64 {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func queryInt(c *gin.Context, key string, def int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return def
}

package weatherflowrest

// Station metadata from /stations.
type Station struct {
	StationID   int     `json:"station_id"`
	Name        string  `json:"name"`
	PublicName  string  `json:"public_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone"`
	Elevation   float64 `json:"station_meters"`
	IsLocalMode bool    `json:"is_local_mode"`
}

// Observation is one record from /observations/station/{id}. The API omits
// fields a station cannot measure, hence the pointer fields.
type Observation struct {
	Timestamp                     *int64   `json:"timestamp"`
	AirDensity                    *float64 `json:"air_density"`
	AirTemperature                *float64 `json:"air_temperature"`
	BarometricPressure            *float64 `json:"barometric_pressure"`
	Brightness                    *float64 `json:"brightness"`
	DeltaT                        *float64 `json:"delta_t"`
	DewPoint                      *float64 `json:"dew_point"`
	FeelsLike                     *float64 `json:"feels_like"`
	HeatIndex                     *float64 `json:"heat_index"`
	LightningStrikeCount          *float64 `json:"lightning_strike_count"`
	LightningStrikeCountLast3Hr   *float64 `json:"lightning_strike_count_last_3hr"`
	LightningStrikeLastDistance   *float64 `json:"lightning_strike_last_distance"`
	LightningStrikeLastEpoch      *int64   `json:"lightning_strike_last_epoch"`
	Precip                        *float64 `json:"precip"`
	PrecipAccumLocalDayFinal      *float64 `json:"precip_accum_local_day_final"`
	PrecipAccumLocalYesterdayFnl  *float64 `json:"precip_accum_local_yesterday_final"`
	PrecipMinutesLocalDay         *float64 `json:"precip_minutes_local_day"`
	PrecipMinutesLocalYesterday   *float64 `json:"precip_minutes_local_yesterday"`
	PressureTrend                 *string  `json:"pressure_trend"`
	RelativeHumidity              *float64 `json:"relative_humidity"`
	SeaLevelPressure              *float64 `json:"sea_level_pressure"`
	SolarRadiation                *float64 `json:"solar_radiation"`
	UV                            *float64 `json:"uv"`
	WetBulbTemperature            *float64 `json:"wet_bulb_temperature"`
	WetBulbGlobeTemperature       *float64 `json:"wet_bulb_globe_temperature"`
	WindAvg                       *float64 `json:"wind_avg"`
	WindChill                     *float64 `json:"wind_chill"`
	WindDirection                 *float64 `json:"wind_direction"`
	WindGust                      *float64 `json:"wind_gust"`
	WindLull                      *float64 `json:"wind_lull"`
}

// StationData is a station with its most-recent-first observation list.
type StationData struct {
	Station      Station
	Observations []Observation
}

// LatestObservation returns the first (most recent) record, or nil when the
// API returned an empty list.
func (s *StationData) LatestObservation() *Observation {
	if s == nil || len(s.Observations) == 0 {
		return nil
	}
	return &s.Observations[0]
}

type stationsResponse struct {
	Stations []Station `json:"stations"`
}

type observationsResponse struct {
	StationID int           `json:"station_id"`
	Obs       []Observation `json:"obs"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survey

// defaultMappings encodes how each survey year names its columns. The
// coding drifted year to year (accent stripping in 2019, uppercase exports
// from 2021 on), which is exactly why the long table exists.
var defaultMappings = MappingSet{
	2017: {
		IDColumn: "cod_ibge",
		Columns: map[string]string{
			"populacao":       "population",
			"viagens_dia":     "trips_per_day",
			"part_transporte": "transit_share",
			"frota_onibus":    "bus_fleet",
			"tarifa_media":    "average_fare",
		},
	},
	2018: {
		IDColumn: "cod_ibge",
		Columns: map[string]string{
			"populacao":       "population",
			"viagens_dia":     "trips_per_day",
			"part_transporte": "transit_share",
			"frota_onibus":    "bus_fleet",
			"tarifa_media":    "average_fare",
		},
	},
	2019: {
		IDColumn: "codigo_ibge",
		Columns: map[string]string{
			"pop_total":       "population",
			"total_viagens":   "trips_per_day",
			"particip_tp":     "transit_share",
			"frota_de_onibus": "bus_fleet",
			"tarifa_media_rs": "average_fare",
		},
	},
	2020: {
		IDColumn: "codigo_ibge",
		Columns: map[string]string{
			"pop_total":       "population",
			"total_viagens":   "trips_per_day",
			"particip_tp":     "transit_share",
			"frota_de_onibus": "bus_fleet",
			"tarifa_media_rs": "average_fare",
		},
	},
	2021: {
		Sheet:    "BASE",
		IDColumn: "COD_IBGE",
		Columns: map[string]string{
			"POPULACAO":    "population",
			"VIAGENS":      "trips_per_day",
			"PART_TP":      "transit_share",
			"FROTA_ONIBUS": "bus_fleet",
			"TARIFA":       "average_fare",
		},
	},
	2022: {
		Sheet:    "BASE",
		IDColumn: "COD_IBGE",
		Columns: map[string]string{
			"POPULACAO":    "population",
			"VIAGENS":      "trips_per_day",
			"PART_TP":      "transit_share",
			"FROTA_ONIBUS": "bus_fleet",
			"TARIFA":       "average_fare",
		},
	},
}

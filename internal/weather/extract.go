package weather

import "github.com/tidwall/gjson"

// Extract trims a raw provider payload down to a Report. Missing fields come
// out as zero values; the raw payload is retained so callers that want the
// full provider response still have it.
func Extract(raw []byte, unit Unit) *Report {
	doc := gjson.ParseBytes(raw)

	rep := &Report{
		City: doc.Get("name").String(),
		Unit: unit,
		Raw:  append([]byte(nil), raw...),
	}

	if first := doc.Get("weather.0"); first.Exists() {
		rep.Weather = Conditions{
			Main:        first.Get("main").String(),
			Description: first.Get("description").String(),
			Icon:        first.Get("icon").String(),
		}
	}

	main := doc.Get("main")
	rep.Main = Readings{
		Temp:      main.Get("temp").Float(),
		FeelsLike: main.Get("feels_like").Float(),
		TempMin:   main.Get("temp_min").Float(),
		TempMax:   main.Get("temp_max").Float(),
		Pressure:  main.Get("pressure").Int(),
		Humidity:  main.Get("humidity").Int(),
	}

	if wind := doc.Get("wind"); wind.Exists() {
		w := &Wind{Speed: wind.Get("speed").Float()}
		if deg := wind.Get("deg"); deg.Exists() {
			d := deg.Int()
			w.Deg = &d
		}
		rep.Wind = w
	}

	if sys := doc.Get("sys"); sys.Exists() {
		rep.Country = sys.Get("country").String()
		rep.Sys = &Sys{
			Country: sys.Get("country").String(),
			Sunrise: sys.Get("sunrise").Int(),
			Sunset:  sys.Get("sunset").Int(),
		}
	}

	return rep
}

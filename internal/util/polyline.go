package util

// DecodePolyline converts an encoded polyline string to [lat, lng] pairs.
// Implementation based on Google's Encoded Polyline Algorithm Format with
// the standard 1e-5 precision, which is what OpenRouteService returns.
func DecodePolyline(encoded string) [][2]float64 {
	var points [][2]float64
	index, lat, lng := 0, 0, 0

	readDelta := func() (int, bool) {
		shift, result := 0, 0
		for {
			if index >= len(encoded) {
				return 0, false
			}
			b := int(encoded[index]) - 63
			index++
			result |= (b & 0x1f) << shift
			shift += 5
			if b < 0x20 {
				break
			}
		}
		// The low bit carries the sign.
		if result&1 != 0 {
			return -(result >> 1), true
		}
		return result >> 1, true
	}

	for index < len(encoded) {
		dLat, ok := readDelta()
		if !ok {
			return points
		}
		lat += dLat

		dLng, ok := readDelta()
		if !ok {
			return points
		}
		lng += dLng

		points = append(points, [2]float64{float64(lat) * 1e-5, float64(lng) * 1e-5})
	}

	return points
}

package engine

// rec builds an enriched record. Counts are passed in column order:
// demo 5-17, demo 17+, bio 5-17, bio 17+, enro 0-5, enro 5-17, enro 18+.
func rec(state, district, pincode, month, weekday string, c ...int64) Record {
	counts := make([]int64, 7)
	copy(counts, c)
	return Enrich(Record{
		State:    state,
		District: district,
		Pincode:  pincode,
		Month:    month,
		Day:      "1",
		Weekday:  weekday,
		Counts: RawCounts{
			DemoAge5To17:  counts[0],
			DemoAge17Plus: counts[1],
			BioAge5To17:   counts[2],
			BioAge17Plus:  counts[3],
			EnroAge0To5:   counts[4],
			EnroAge5To17:  counts[5],
			EnroAge18Plus: counts[6],
		},
	})
}

// fixtureRecords: total_activity per row is 23, 30, 100, 7 (sum 160).
func fixtureRecords() []Record {
	return []Record{
		rec("Kerala", "Ernakulam", "682001", "3", "Monday", 5, 5, 10, 0, 1, 1, 1),
		rec("Kerala", "Thrissur", "680001", "3", "Tuesday", 0, 0, 0, 0, 10, 10, 10),
		rec("Bihar", "Patna", "800001", "12", "Monday", 50, 50, 0, 0, 0, 0, 0),
		rec("Kerala", "Ernakulam", "682002", "12", "Sunday", 1, 1, 2, 2, 0, 0, 1),
	}
}

func fixtureView() RecordView {
	return NewRecordView(fixtureRecords())
}

// activityView builds one record per value, with total_activity == value.
func activityView(values ...int64) RecordView {
	records := make([]Record, len(values))
	for i, v := range values {
		records[i] = rec("S", "D", "P", "1", "Monday", 0, 0, 0, 0, v, 0, 0)
	}
	return NewRecordView(records)
}

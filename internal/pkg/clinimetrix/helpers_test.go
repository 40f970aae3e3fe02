package clinimetrix

func floatPtr(v float64) *float64 {
	return &v
}

// phqTemplate mimics a short screening scale: two sections with an empty
// one in between, a shared response group and a mix of response types.
func phqTemplate() *Template {
	return &Template{
		ID:      "phq-mini",
		Name:    "Cuestionario breve",
		Version: "1.0",
		ResponseGroups: map[string][]Option{
			"frequency": {
				{Value: 0, Label: "Nunca", Score: floatPtr(0)},
				{Value: 1, Label: "Varios días", Score: floatPtr(1)},
				{Value: 2, Label: "Más de la mitad de los días", Score: floatPtr(2)},
				{Value: 3, Label: "Casi todos los días", Score: floatPtr(3)},
			},
		},
		Sections: []Section{
			{
				ID:    "s1",
				Title: "Estado de ánimo",
				Items: []Item{
					{ID: "q1", Number: 1, Text: "Poco interés", ResponseType: ResponseTypeLikert, ResponseGroup: "frequency", Required: true},
					{ID: "q2", Number: 2, Text: "Desánimo", ResponseType: ResponseTypeLikert, ResponseGroup: "frequency", Required: true},
				},
			},
			{ID: "s-empty", Title: "Sin reactivos"},
			{
				ID:    "s2",
				Title: "Datos adicionales",
				Items: []Item{
					{ID: "q3", Number: 3, Text: "Horas de sueño", ResponseType: ResponseTypeNumeric, Min: floatPtr(0), Max: floatPtr(24)},
					{ID: "q4", Number: 4, Text: "Comentarios", ResponseType: ResponseTypeText, Required: true},
				},
			},
		},
	}
}

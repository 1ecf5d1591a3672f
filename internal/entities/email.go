package entities

type ConsultationEmailData struct {
	PatientName    string
	DoctorName     string
	DateFormatted  string
	StartFormatted string
	EndFormatted   string
	Type           string
	Status         string
	CurrentYear    int
}

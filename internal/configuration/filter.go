package configuration

type FilterConfig struct {
	// Cutoff frequency of the low-pass filter in Hz
	Cutoff float64 `json:"cutoff"`
	// SampleRate is the assumed rate at which samples are buffered in Hz
	SampleRate  float64 `json:"sampleRate"`
	Order       int     `json:"order"`
	HistorySize int     `json:"historySize"`
}

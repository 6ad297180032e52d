package transfer

type FacebookPageInfo struct {
	PageID         string `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	FanCount       int64  `json:"fan_count"`
	ProfilePicture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

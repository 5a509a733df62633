// internal/workers/affiliate/affiliate-lookup/models.go
package affiliatelookup

type Input struct {
	Keyword string `json:"keyword"`
}

type Output struct {
	ProductURL  string `json:"productUrl"`
	ProductName string `json:"productName,omitempty"`
	ProductID   int64  `json:"productId,omitempty"`
}

// searchResponse is the product search envelope.
type searchResponse struct {
	RCode    string `json:"rCode"`
	RMessage string `json:"rMessage"`
	Data     struct {
		LandingURL  string    `json:"landingUrl"`
		ProductData []product `json:"productData"`
	} `json:"data"`
}

type product struct {
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductPrice float64 `json:"productPrice"`
	ProductImage string  `json:"productImage"`
	ProductURL   string  `json:"productUrl"`
	Keyword      string  `json:"keyword"`
	Rank         int     `json:"rank"`
	IsRocket     bool    `json:"isRocket"`
}

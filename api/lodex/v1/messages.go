package lodexv1

// Item is the wire form of a catalog item.
type Item struct {
	Id        string            `json:"id"`
	Name      string            `json:"name"`
	CreatedMs int64             `json:"createdMs,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

type ForwardRequest struct {
	Collection string `json:"collection,omitempty"`
	Lower      string `json:"lower,omitempty"`
	Offset     int32  `json:"offset,omitempty"`
	Limit      int32  `json:"limit"`
	Filter     string `json:"filter,omitempty"`
}

func (x *ForwardRequest) GetCollection() string {
	if x != nil {
		return x.Collection
	}
	return ""
}

type ReverseRequest struct {
	Collection string `json:"collection,omitempty"`
	Lower      string `json:"lower,omitempty"`
	Upper      string `json:"upper,omitempty"`
	UpperId    string `json:"upperId,omitempty"`
	Limit      int32  `json:"limit"`
	Filter     string `json:"filter,omitempty"`
}

func (x *ReverseRequest) GetCollection() string {
	if x != nil {
		return x.Collection
	}
	return ""
}

// ItemsResponse carries a page. Reverse pages are in descending order.
type ItemsResponse struct {
	Items []*Item `json:"items"`
}

func (x *ItemsResponse) GetItems() []*Item {
	if x != nil {
		return x.Items
	}
	return nil
}

type CountRequest struct {
	Collection string `json:"collection,omitempty"`
	Filter     string `json:"filter,omitempty"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

func (x *CountResponse) GetCount() int64 {
	if x != nil {
		return x.Count
	}
	return 0
}

type HealthCheckRequest struct{}

type HealthCheckResponse struct {
	Status string `json:"status"`
}

func (x *HealthCheckResponse) GetStatus() string {
	if x != nil {
		return x.Status
	}
	return ""
}

type WatchRequest struct {
	Collection string `json:"collection,omitempty"`
}

// WatchEvent reports one bulk mutation of the watched collection.
type WatchEvent struct {
	Seq  uint64 `json:"seq"`
	AtMs int64  `json:"atMs"`
}

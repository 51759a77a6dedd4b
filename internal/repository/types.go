package repository

// BusinessListFilter 查询商家列表的过滤条件
type BusinessListFilter struct {
	Page       int
	PageSize   int
	OwnerID    uint
	OnlyActive bool
	Search     string
}

// MembershipListFilter 查询会员卡列表的过滤条件
type MembershipListFilter struct {
	CustomerID    uint
	LoyaltyCardID uint
	BusinessIDs   []uint
	UnclaimedOnly bool
}

// ActivityListFilter 查询活动流的过滤条件
type ActivityListFilter struct {
	Page       int
	PageSize   int
	BusinessID uint
	Type       string
}

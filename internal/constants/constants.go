package constants

// 会员卡相关常量
const (
	// CardCodeMin 卡号最小值（三位数字，人工可输入）
	CardCodeMin = 100
	// CardCodeMax 卡号最大值
	CardCodeMax = 999
	// CardCodeMaxAttempts 卡号分配最大尝试次数
	CardCodeMaxAttempts = 1000
)

// 集换卡规格常量
const (
	// LoyaltyCardMinSlots 集章格数下限
	LoyaltyCardMinSlots = 3
	// LoyaltyCardMaxSlots 集章格数上限
	LoyaltyCardMaxSlots = 20
	// BusinessMaxCategories 商家分类数量上限
	BusinessMaxCategories = 2
)

// 发现页相关常量
const (
	// DiscoveryPageSize 发现页每页商家数
	DiscoveryPageSize = 10
	// DiscoveryCacheTTLSeconds 客户卡片快照缓存有效期（秒）
	DiscoveryCacheTTLSeconds = 300
	// StoreInFilterLimit 存储层 IN 查询单批 ID 上限
	StoreInFilterLimit = 10
)

// 活动流事件类型常量
const (
	ActivityTypeStamp         = "stamp"
	ActivityTypeRewardClaimed = "reward_claimed"
)

// 活动流备注常量
const (
	ActivityNoteRewardRedeemed = "reward redeemed"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskStampAdded    = "notify:stamp_added"
	TaskCardCompleted = "notify:card_completed"
	TaskRewardClaimed = "notify:reward_claimed"
)

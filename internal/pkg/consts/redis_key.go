package consts

const (
	PostLikeKey            = "post:like:"
	PostDirtyKey           = "post:dirty"
	CommentLikeKey         = "comment:like:"
	CommentLikeDirtyKey    = "comment:like:dirty"
	UserFollowerCountKey   = "user:follower:count:"
	UserFollowingCountKey  = "user:following:count:"
	TokenBlacklistKey      = "token:blacklist:"
	NotificationChannelKey = "notify:user:"
	MediaTempKey           = "media:temp"
)

const (
	CounterReconcileLock = "lock:counter:reconcile"
	MediaCleanupLock     = "lock:media:cleanup"
)

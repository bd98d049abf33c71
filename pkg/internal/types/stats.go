package types

// StatsResponse 媒体库概览统计.
type StatsResponse struct {
	TotalMedia  int64 `json:"total_media"`
	TotalImages int64 `json:"total_images"`
	TotalVideos int64 `json:"total_videos"`
	TotalAlbums int64 `json:"total_albums"`
	// TotalViews 所有媒体 view_count 之和
	TotalViews int64 `json:"total_views"`
	// TotalSize 所有媒体 file_size 之和（字节）
	TotalSize int64 `json:"total_size"`
}

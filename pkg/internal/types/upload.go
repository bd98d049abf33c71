package types

// UploadMediaMetadata 代理上传时的可选元数据（multipart 表单字段）.
type UploadMediaMetadata struct {
	Title       string `form:"title"       json:"title,omitempty"`
	Description string `form:"description" json:"description,omitempty"`
	Category    string `form:"category"    json:"category,omitempty"`
	// AlbumID 可选；上传成功后尝试加入该相册
	AlbumID string `form:"album_id" json:"album_id,omitempty"`
}

// UploadMediaResponse 代理上传响应：文件已转存外部托管并登记完成.
type UploadMediaResponse struct {
	Media MediaInfo `json:"media"`
	// AlbumWarning 非空表示上传成功但加入相册失败
	AlbumWarning string `json:"album_warning,omitempty"`
}

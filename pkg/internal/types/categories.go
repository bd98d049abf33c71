package types

// ListCategoriesResponse 分类列表响应.
//
// 分类为媒体记录上 category 列的去重集合，剔除空白与 uncategorized
// 占位值，按不区分大小写的字典序排列.
type ListCategoriesResponse struct {
	Categories []string `json:"categories"`
}

package analyzer

import (
	"fmt"
	"sort"

	"github.com/google/pprof/profile"
)

// BuildFlameGraphTree 将 profile 的样本聚合成层级化的 FlameGraphNode 树。
// valueIndex 指定使用哪个样本值 (例如 0 为样本数，1 为 real 纳秒)。
// 同名函数在同一层级上合并。
func BuildFlameGraphTree(p *profile.Profile, valueIndex int) (*FlameGraphNode, error) {
	if valueIndex < 0 || valueIndex >= len(p.SampleType) {
		return nil, fmt.Errorf("invalid value index %d for profile with %d sample types", valueIndex, len(p.SampleType))
	}

	root := &FlameGraphNode{Name: "root"}
	index := map[*FlameGraphNode]map[string]*FlameGraphNode{}

	for _, s := range p.Sample {
		if len(s.Value) <= valueIndex || s.Value[valueIndex] == 0 {
			continue
		}
		v := s.Value[valueIndex]
		root.Value += v

		// location 从叶子到根排列，火焰图需要从根开始
		cur := root
		for i := len(s.Location) - 1; i >= 0; i-- {
			loc := s.Location[i]
			if len(loc.Line) == 0 {
				continue
			}
			name := fmt.Sprintf("unknown @ 0x%x", loc.Address)
			if fn := loc.Line[0].Function; fn != nil {
				name = fn.Name
			}
			children := index[cur]
			if children == nil {
				children = map[string]*FlameGraphNode{}
				index[cur] = children
			}
			child, ok := children[name]
			if !ok {
				child = &FlameGraphNode{Name: name}
				children[name] = child
				cur.Children = append(cur.Children, child)
			}
			child.Value += v
			cur = child
		}
	}

	sortChildrenByValue(root)
	return root, nil
}

// sortChildrenByValue 递归地按值降序排列子节点，值相同时按名称排序
func sortChildrenByValue(node *FlameGraphNode) {
	sort.SliceStable(node.Children, func(i, j int) bool {
		if node.Children[i].Value != node.Children[j].Value {
			return node.Children[i].Value > node.Children[j].Value
		}
		return node.Children[i].Name < node.Children[j].Name
	})
	for _, child := range node.Children {
		sortChildrenByValue(child)
	}
}

package pandoctree

// DocumentOf promotes a value to a complete document the way writers
// accept one: an inline becomes a list of inlines, a list of inlines
// becomes a Plain block, a block becomes a list of blocks, and a list of
// blocks becomes a document with empty metadata.
func (c *Context) DocumentOf(v Value) (*Document, error) {
	if doc, ok := v.(*Document); ok {
		return doc, nil
	}
	if n, ok := v.(*Node); ok {
		v = List{n}
	}
	lst, ok := v.(List)
	if !ok {
		return nil, issuef(CodeShapeMismatch, "", "", "cannot promote %s to a document", valueKind(v))
	}
	if len(lst) > 0 && c.allOf(lst, "Inline") {
		plain, err := c.New("Plain", lst)
		if err != nil {
			return nil, err
		}
		lst = List{plain}
	}
	if len(lst) == 0 || c.allOf(lst, "Block") {
		return NewDocument(nil, lst), nil
	}
	return nil, issuef(CodeShapeMismatch, "", "", "list elements are neither all inlines nor all blocks")
}

func (c *Context) allOf(lst List, typeName string) bool {
	for _, v := range lst {
		n, ok := v.(*Node)
		if !ok {
			return false
		}
		ctor, err := c.Types.Constructor(n.Tag())
		if err != nil || ctor.Parent.Name != typeName {
			return false
		}
	}
	return true
}

package convert

import (
	"github.com/FrankKr/power-grid-model/pkg/errors"
	"github.com/FrankKr/power-grid-model/pkg/models"
)

// Inject merges extra info into decoded records by object id, in place.
//
// For a single record set, extraInfo must map object ids to payloads; every
// record whose id is a key receives the payload under its "extra" attribute,
// all other records are left alone. For a batch (a list of record sets), a
// list of extra info maps pairs up with the scenarios positionally, with
// surplus entries on either side dropped, while a single map applies to
// every scenario.
func (c *Converter) Inject(data interface{}, extraInfo interface{}) error {
	switch d := data.(type) {
	case []models.RecordSet:
		if infos, ok := asExtraInfoList(extraInfo); ok {
			for i := 0; i < len(d) && i < len(infos); i++ {
				if err := injectSingle(d[i], infos[i]); err != nil {
					return err
				}
			}
			return nil
		}
		info, ok := asExtraInfo(extraInfo)
		if !ok {
			return errors.New(errors.ErrorTypeInvalidExtraInfoType, "invalid extra info data type")
		}
		for _, rs := range d {
			if err := injectSingle(rs, info); err != nil {
				return err
			}
		}
		return nil
	case models.RecordSet:
		info, ok := asExtraInfo(extraInfo)
		if !ok {
			return errors.New(errors.ErrorTypeInvalidExtraInfoType, "invalid extra info data type")
		}
		return injectSingle(d, info)
	default:
		return errors.New(errors.ErrorTypeInvalidDataType, "data should be either a list or a record set")
	}
}

func injectSingle(rs models.RecordSet, info models.ExtraInfo) error {
	for _, records := range rs {
		for _, rec := range records {
			id, ok := rec.ID()
			if !ok {
				continue
			}
			if payload, exists := info[id]; exists {
				rec[models.ExtraField] = payload
			}
		}
	}
	return nil
}

func asExtraInfo(v interface{}) (models.ExtraInfo, bool) {
	switch info := v.(type) {
	case models.ExtraInfo:
		return info, true
	case map[int]interface{}:
		return info, true
	default:
		return nil, false
	}
}

func asExtraInfoList(v interface{}) ([]models.ExtraInfo, bool) {
	switch infos := v.(type) {
	case []models.ExtraInfo:
		return infos, true
	case []map[int]interface{}:
		out := make([]models.ExtraInfo, len(infos))
		for i, info := range infos {
			out[i] = info
		}
		return out, true
	default:
		return nil, false
	}
}

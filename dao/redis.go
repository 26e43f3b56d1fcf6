package dao

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"time"

	"LiveCTF/common"
)

//把字段转换成 redis 能存的值
func typeAnalyzed(x interface{}) interface{} {
	switch t := x.(type) {
	case string, int64, int, uint, uint64, bool, float32, float64, []byte:
		return x
	case time.Time:
		return common.TimeToStr(t)
	default:
		jsonValue, _ := json.Marshal(x)
		return jsonValue
	}
}

func structValue(obj interface{}) (reflect.Value, error) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr {
		return reflect.Value{}, errors.New("传入对象不是结构体指针")
	}
	if v.IsNil() {
		return reflect.Value{}, errors.New("空指针错误")
	}
	if v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, errors.New("传入的不是结构体")
	}
	return v.Elem(), nil
}

//obj 必须是结构体指针, 按照 json 标签存入 redis hash, expire 为 0 时永久保存
func (d *DB) putObjToRedis(ctx context.Context, key string, obj interface{}, expire time.Duration) error {
	v, err := structValue(obj)
	if err != nil {
		return err
	}
	t := v.Type()
	var args []interface{}
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		args = append(args, tag, typeAnalyzed(v.Field(i).Interface()))
	}
	pipe := d.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, args...)
	if expire != 0 {
		pipe.Expire(ctx, key, expire)
	}
	_, err = pipe.Exec(ctx)
	return err
}

//从 redis 读取结构体, key 不存在时返回 false
func (d *DB) getObjFromRedis(ctx context.Context, key string, obj interface{}) (bool, error) {
	v, err := structValue(obj)
	if err != nil {
		return false, err
	}
	mp, err := d.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if len(mp) == 0 {
		return false, nil
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		raw, ok := mp[tag]
		if !ok {
			continue
		}
		field := v.Field(i)
		switch field.Interface().(type) {
		case string:
			field.SetString(raw)
		case int64, int:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return false, err
			}
			field.SetInt(n)
		case bool:
			field.SetBool(common.StrToBool(raw))
		case time.Time:
			field.Set(reflect.ValueOf(common.StrToTime(raw)))
		default:
			ptr := reflect.New(field.Type())
			if err := json.Unmarshal([]byte(raw), ptr.Interface()); err != nil {
				return false, err
			}
			field.Set(ptr.Elem())
		}
	}
	return true, nil
}

func (d *DB) delKeys(ctx context.Context, keys ...string) {
	if d.rdb == nil {
		return
	}
	if err := d.rdb.Del(ctx, keys...).Err(); err != nil {
		d.log.Error().Err(err).Strs("keys", keys).Msg("redis del")
	}
}
